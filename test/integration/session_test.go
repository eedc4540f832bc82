package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：出席与评价集成测试
// 核心验收：评价必须以出席(Attended=Yes)为门槛，且每条预约只能评价一次

// setupBookedSession 准备一条已预约的课程，返回学生Token、导师Token和预约信息
func setupBookedSession(t *testing.T, name string) (studentToken, tutorToken string, studentID, slotID, bookingID uint) {
	var courseID uint
	_, courseID, tutorToken = RegisterTestTutor(t, name+"_tutor")
	studentID, studentToken = RegisterTestStudent(t, name+"_student")

	slotID = CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 3)

	bookResp := BookSlot(t, studentToken, slotID)
	require.Equal(t, 0, bookResp.Code, "预约失败: %s", bookResp.Message)

	var bookData BookingData
	require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))

	return studentToken, tutorToken, studentID, slotID, bookData.BookingID
}

// TestMarkAttendance 测试出席标记
func TestMarkAttendance(t *testing.T) {
	studentToken, tutorToken, studentID, slotID, bookingID := setupBookedSession(t, "attend")

	t.Run("学生标记出席", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
			map[string]string{"attended": "Yes"}, studentToken)
		require.Equal(t, 0, resp.Code, "标记出席失败: %s", resp.Message)

		var data struct {
			BookingID uint   `json:"booking_id"`
			Attended  string `json:"attended"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "Yes", data.Attended)
	})

	t.Run("重复标记覆盖旧值", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
			map[string]string{"attended": "No"}, studentToken)
		require.Equal(t, 0, resp.Code, "重复标记失败: %s", resp.Message)

		var data struct {
			Attended string `json:"attended"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "No", data.Attended, "upsert应覆盖旧值")
	})

	t.Run("导师按学生和时段标记", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/tutors/attendance", map[string]interface{}{
			"student_id": studentID,
			"slot_id":    slotID,
			"attended":   "Yes",
		}, tutorToken)
		require.Equal(t, 0, resp.Code, "导师标记出席失败: %s", resp.Message)
	})

	t.Run("导师不能标记他人时段", func(t *testing.T) {
		_, _, otherTutorToken := RegisterTestTutor(t, "attend_other")

		resp := PostJSON(t, BaseURL+"/tutors/attendance", map[string]interface{}{
			"student_id": studentID,
			"slot_id":    slotID,
			"attended":   "Yes",
		}, otherTutorToken)
		assert.Equal(t, 40300, resp.Code, "时段不属于该导师应返回40300")
	})

	t.Run("非法出席状态被拒", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
			map[string]string{"attended": "Maybe"}, studentToken)
		assert.NotEqual(t, 0, resp.Code, "出席状态只能是Yes或No")
	})

	t.Run("标记他人预约返回404", func(t *testing.T) {
		_, otherToken := RegisterTestStudent(t, "attend_stranger")

		resp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
			map[string]string{"attended": "Yes"}, otherToken)
		assert.Equal(t, 40405, resp.Code, "他人预约应返回40405")
	})
}

// TestSubmitReview 测试评价提交
// 完整链路：预约 → 出席 → 评价 → 导师平均分更新
func TestSubmitReview(t *testing.T) {
	studentToken, _, _, _, bookingID := setupBookedSession(t, "review")

	t.Run("未出席不能评价", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/reviews/%d", BaseURL, bookingID),
			map[string]interface{}{"rating": 5, "comment": "很好"}, studentToken)
		assert.Equal(t, 40005, resp.Code, "没有出席记录应返回40005")
	})

	// 标记出席
	attendResp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
		map[string]string{"attended": "Yes"}, studentToken)
	require.Equal(t, 0, attendResp.Code, "标记出席失败")

	t.Run("评分超范围被拒", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/reviews/%d", BaseURL, bookingID),
			map[string]interface{}{"rating": 6}, studentToken)
		assert.NotEqual(t, 0, resp.Code, "评分必须在1-5之间")
	})

	t.Run("正常评价", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/reviews/%d", BaseURL, bookingID),
			map[string]interface{}{"rating": 5, "comment": "讲得很清楚"}, studentToken)
		require.Equal(t, 0, resp.Code, "评价失败: %s", resp.Message)

		var data struct {
			BookingID    uint    `json:"booking_id"`
			Rating       int     `json:"rating"`
			TutorAverage float64 `json:"tutor_average"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))

		assert.Equal(t, 5, data.Rating)
		assert.InDelta(t, 5.0, data.TutorAverage, 0.01, "唯一一条评价后平均分应为5")

		t.Logf("✓ 评价成功，导师平均分: %.2f", data.TutorAverage)
	})

	t.Run("重复评价被拒", func(t *testing.T) {
		resp := PostJSON(t, fmt.Sprintf("%s/reviews/%d", BaseURL, bookingID),
			map[string]interface{}{"rating": 3}, studentToken)
		assert.Equal(t, 40905, resp.Code, "重复评价应返回40905")
	})
}

// TestAttendanceNoGate 出席记录为No同样不能评价
func TestAttendanceNoGate(t *testing.T) {
	studentToken, _, _, _, bookingID := setupBookedSession(t, "nogate")

	attendResp := PostJSON(t, fmt.Sprintf("%s/attendance/%d", BaseURL, bookingID),
		map[string]string{"attended": "No"}, studentToken)
	require.Equal(t, 0, attendResp.Code)

	resp := PostJSON(t, fmt.Sprintf("%s/reviews/%d", BaseURL, bookingID),
		map[string]interface{}{"rating": 4}, studentToken)
	assert.Equal(t, 40005, resp.Code, "Attended=No不满足评价门槛")
}
