package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：预约模块集成测试
//
// 这里是整个系统的核心验收场景：
// 1. 名额不超卖（并发预约容量1的时段，只有一个成功）
// 2. 满员关闭/取消重开的状态闭环
// 3. 取消后可重新预约
// 4. 当天冲突规则（同导师同课程/时间重叠/同课程）
//
// 并发正确性依赖真实的MySQL行锁和GET_LOCK，无法用单元测试替代

// TestBookingLifecycle 测试预约的完整生命周期
// 预约 → 满员关闭 → 取消 → 重开 → 重新预约
func TestBookingLifecycle(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "lifecycle_tutor")
	_, studentToken := RegisterTestStudent(t, "lifecycle_student")

	// 容量1的时段：一次预约即满员
	slotID := CreateTestSlot(t, tutorToken, courseID, "09:00", "10:00", 1)

	// Step 1: 预约
	t.Log("➜ Step 1: 预约时段")
	bookResp := BookSlot(t, studentToken, slotID)
	require.Equal(t, 0, bookResp.Code, "预约失败: %s", bookResp.Message)

	var bookData BookingData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err)

	assert.Equal(t, "Confirmed", bookData.Status)
	assert.Equal(t, "Closed", bookData.SlotStatus, "容量1的时段约满后应关闭")
	t.Logf("✓ 预约成功，BookingID: %d，时段状态: %s", bookData.BookingID, bookData.SlotStatus)

	// Step 2: 满员时段不能再约
	t.Log("➜ Step 2: 其他学生预约已关闭的时段")
	_, otherToken := RegisterTestStudent(t, "lifecycle_other")
	closedResp := BookSlot(t, otherToken, slotID)
	assert.Equal(t, 40001, closedResp.Code, "已关闭时段应返回40001")

	// Step 3: 取消预约，名额释放，时段重开
	t.Log("➜ Step 3: 取消预约")
	cancelResp := DeleteJSON(t, fmt.Sprintf("%s/bookings/%d", BaseURL, bookData.BookingID), studentToken)
	require.Equal(t, 0, cancelResp.Code, "取消失败: %s", cancelResp.Message)

	var cancelData CancelData
	err = json.Unmarshal(cancelResp.Data, &cancelData)
	require.NoError(t, err)

	assert.Equal(t, "Cancelled", cancelData.Status)
	assert.Equal(t, "Open", cancelData.SlotStatus, "取消后时段应重新开放")
	t.Logf("✓ 取消成功，时段状态: %s", cancelData.SlotStatus)

	// Step 4: 取消是幂等失败：再取消同一条返回404
	t.Log("➜ Step 4: 重复取消")
	againResp := DeleteJSON(t, fmt.Sprintf("%s/bookings/%d", BaseURL, bookData.BookingID), studentToken)
	assert.Equal(t, 40405, againResp.Code, "已取消的预约再取消应返回40405")

	// Step 5: 同一学生可以重新预约（旧Cancelled记录被清理）
	t.Log("➜ Step 5: 取消后重新预约")
	rebookResp := BookSlot(t, studentToken, slotID)
	assert.Equal(t, 0, rebookResp.Code, "取消后应该可以重新预约: %s", rebookResp.Message)

	t.Log("✅ 预约生命周期测试通过")
}

// TestConcurrentBooking 并发预约容量1的时段
//
// 教学重点：防超卖的核心验收
// 10个学生同时抢1个名额，必须恰好1个成功，其余收到明确的业务错误
// （时段已关闭40001，或在行锁释放前排队后发现已满）
func TestConcurrentBooking(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "concurrent_tutor")
	slotID := CreateTestSlot(t, tutorToken, courseID, "14:00", "15:00", 1)

	const students = 10
	tokens := make([]string, students)
	for i := 0; i < students; i++ {
		_, tokens[i] = RegisterTestStudent(t, fmt.Sprintf("concurrent_%d", i))
	}

	var wg sync.WaitGroup
	results := make([]int, students)

	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp := BookSlot(t, tokens[idx], slotID)
			results[idx] = resp.Code
		}(i)
	}
	wg.Wait()

	success := 0
	for _, code := range results {
		if code == 0 {
			success++
		}
	}

	assert.Equal(t, 1, success, "容量1的时段并发预约必须恰好成功1次（实际%d次）", success)
	t.Logf("✓ %d个并发请求，成功%d次，名额没有超卖", students, success)
}

// TestBookingConflictRules 测试当天冲突规则
func TestBookingConflictRules(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "conflict_tutor")
	_, studentToken := RegisterTestStudent(t, "conflict_student")

	// 基准预约：10:00-11:00
	baseSlotID := CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 5)
	baseResp := BookSlot(t, studentToken, baseSlotID)
	require.Equal(t, 0, baseResp.Code, "基准预约失败: %s", baseResp.Message)

	t.Run("重复预约同一时段被拒", func(t *testing.T) {
		resp := BookSlot(t, studentToken, baseSlotID)
		assert.Equal(t, 40901, resp.Code, "重复预约应返回40901")
	})

	t.Run("同导师同课程当天第二次被拒", func(t *testing.T) {
		// 同一导师同一课程的另一个不重叠时段
		slotID := CreateTestSlot(t, tutorToken, courseID, "15:00", "16:00", 5)

		resp := BookSlot(t, studentToken, slotID)
		assert.Equal(t, 40902, resp.Code, "同导师同课程当天应返回40902")
	})

	t.Run("时间重叠被拒", func(t *testing.T) {
		// 另一位导师另一门课，但时间与基准预约重叠
		_, otherCourseID, otherTutorToken := RegisterTestTutor(t, "conflict_overlap")
		slotID := CreateTestSlot(t, otherTutorToken, otherCourseID, "10:30", "11:30", 5)

		resp := BookSlot(t, studentToken, slotID)
		assert.Equal(t, 40903, resp.Code, "时间重叠应返回40903")
	})

	t.Run("相邻时段不算冲突", func(t *testing.T) {
		// 11:00开始,正好接在基准预约结束:半开区间不算重叠
		_, adjCourseID, adjTutorToken := RegisterTestTutor(t, "conflict_adjacent")
		slotID := CreateTestSlot(t, adjTutorToken, adjCourseID, "11:00", "12:00", 5)

		resp := BookSlot(t, studentToken, slotID)
		assert.Equal(t, 0, resp.Code, "相邻时段应该可以预约: %s", resp.Message)
	})

	t.Run("同课程换导师仍被拒", func(t *testing.T) {
		// 同一门课由另一位导师开的不重叠时段
		otherTutorID, _, otherTutorToken := RegisterTestTutor(t, "conflict_course")
		AssignCourse(t, otherTutorID, courseID)
		slotID := CreateTestSlot(t, otherTutorToken, courseID, "18:00", "19:00", 5)

		resp := BookSlot(t, studentToken, slotID)
		assert.Equal(t, 40904, resp.Code, "同课程当天应返回40904")
	})
}

// TestBookingNotFound 测试预约错误路径
func TestBookingNotFound(t *testing.T) {
	_, studentToken := RegisterTestStudent(t, "notfound_student")

	t.Run("不存在的时段", func(t *testing.T) {
		resp := BookSlot(t, studentToken, 99999999)
		assert.Equal(t, 40404, resp.Code, "不存在的时段应返回40404")
	})

	t.Run("取消他人的预约返回404", func(t *testing.T) {
		// 学生A预约,学生B尝试取消:统一404,不暴露预约是否存在
		_, courseID, tutorToken := RegisterTestTutor(t, "notfound_tutor")
		slotID := CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 2)

		_, ownerToken := RegisterTestStudent(t, "notfound_owner")
		bookResp := BookSlot(t, ownerToken, slotID)
		require.Equal(t, 0, bookResp.Code)

		var bookData BookingData
		require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))

		resp := DeleteJSON(t, fmt.Sprintf("%s/bookings/%d", BaseURL, bookData.BookingID), studentToken)
		assert.Equal(t, 40405, resp.Code, "取消他人预约应返回40405")
	})

	t.Run("非数字预约ID", func(t *testing.T) {
		resp := DeleteJSON(t, BaseURL+"/bookings/abc", studentToken)
		assert.Equal(t, 40000, resp.Code)
	})
}

// TestSessionLists 测试课程表查询
func TestSessionLists(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "sessions_tutor")
	_, studentToken := RegisterTestStudent(t, "sessions_student")

	slotID := CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 3)
	bookResp := BookSlot(t, studentToken, slotID)
	require.Equal(t, 0, bookResp.Code, "预约失败: %s", bookResp.Message)

	t.Run("学生未来课程表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/students/me/sessions/upcoming", studentToken)
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var data SessionListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))

		require.Equal(t, 1, data.Total, "应该有1条未来课程")
		assert.Equal(t, "Confirmed", data.Sessions[0].Status)
		assert.NotEmpty(t, data.Sessions[0].TutorName, "学生视角应带出导师姓名")
		assert.Empty(t, data.Sessions[0].StudentName)
	})

	t.Run("导师未来课程表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/tutors/me/sessions/upcoming?sort=student", tutorToken)
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var data SessionListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))

		require.Equal(t, 1, data.Total)
		assert.NotEmpty(t, data.Sessions[0].StudentName, "导师视角应带出学生姓名")
	})

	t.Run("历史课程表为空", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/students/me/sessions/past", studentToken)
		require.Equal(t, 0, resp.Code)

		var data SessionListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 0, data.Total, "明天的预约不应出现在历史里")
	})
}
