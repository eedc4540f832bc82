package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：时段模块集成测试
// 覆盖导师发布时段的校验规则和学生浏览可预约时段的过滤逻辑

// TestCreateSlot 测试导师发布时段
func TestCreateSlot(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "slot_create")

	t.Run("正常发布", func(t *testing.T) {
		slotReq := map[string]interface{}{
			"course_id":  courseID,
			"date":       Tomorrow(),
			"start_time": "10:00",
			"end_time":   "11:00",
			"capacity":   3,
			"location":   "图书馆201",
		}

		resp := PostJSON(t, BaseURL+"/slots", slotReq, tutorToken)
		require.Equal(t, 0, resp.Code, "发布时段失败: %s", resp.Message)

		var data SlotData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.NotZero(t, data.SlotID)
		assert.Equal(t, "Open", data.Status, "新时段应该是Open状态")
		// HH:MM自动补齐为HH:MM:SS
		assert.Equal(t, "10:00:00", data.StartTime)

		t.Logf("✓ 发布时段成功，ID: %d", data.SlotID)
	})

	t.Run("开始时间晚于结束时间应失败", func(t *testing.T) {
		slotReq := map[string]interface{}{
			"course_id":  courseID,
			"date":       Tomorrow(),
			"start_time": "15:00",
			"end_time":   "14:00",
			"capacity":   1,
		}

		resp := PostJSON(t, BaseURL+"/slots", slotReq, tutorToken)
		assert.Equal(t, 40004, resp.Code, "开始时间必须早于结束时间")
	})

	t.Run("过去的日期应失败", func(t *testing.T) {
		slotReq := map[string]interface{}{
			"course_id":  courseID,
			"date":       "2020-01-01",
			"start_time": "10:00",
			"end_time":   "11:00",
			"capacity":   1,
		}

		resp := PostJSON(t, BaseURL+"/slots", slotReq, tutorToken)
		assert.NotEqual(t, 0, resp.Code, "过去的日期应该被拒绝")
	})

	t.Run("非授课课程应失败", func(t *testing.T) {
		// 另一门没有授权给该导师的课程
		otherCourseID := CreateTestCourse(t)

		slotReq := map[string]interface{}{
			"course_id":  otherCourseID,
			"date":       Tomorrow(),
			"start_time": "10:00",
			"end_time":   "11:00",
			"capacity":   1,
		}

		resp := PostJSON(t, BaseURL+"/slots", slotReq, tutorToken)
		assert.Equal(t, 40300, resp.Code, "只能为自己教授的课程发布时段")
	})
}

// TestListSlots 测试时段浏览
// 列表只返回未来的、Open的、未满员的时段
func TestListSlots(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "slot_list")
	slotID := CreateTestSlot(t, tutorToken, courseID, "08:00", "09:00", 1)

	t.Run("明天的列表包含新时段", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/slots/date/"+Tomorrow(), "")
		require.Equal(t, 0, resp.Code, "查询时段列表失败: %s", resp.Message)

		var data struct {
			Slots []struct {
				SlotID    uint   `json:"slot_id"`
				Remaining int    `json:"remaining"`
				Status    string `json:"status"`
				TutorName string `json:"tutor_name"`
			} `json:"slots"`
			Total int `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		found := false
		for _, s := range data.Slots {
			if s.SlotID == slotID {
				found = true
				assert.Equal(t, 1, s.Remaining, "无人预约时剩余名额应等于容量")
				assert.Equal(t, "Open", s.Status)
				assert.NotEmpty(t, s.TutorName, "列表应带出导师姓名")
			}
		}
		assert.True(t, found, "列表中应包含刚发布的时段")
	})

	t.Run("满员时段从列表消失", func(t *testing.T) {
		_, studentToken := RegisterTestStudent(t, "slot_list_student")

		bookResp := BookSlot(t, studentToken, slotID)
		require.Equal(t, 0, bookResp.Code, "预约失败: %s", bookResp.Message)

		resp := GetJSON(t, BaseURL+"/slots/date/"+Tomorrow(), "")
		require.Equal(t, 0, resp.Code)

		var listData struct {
			Slots []struct {
				SlotID uint `json:"slot_id"`
			} `json:"slots"`
		}
		err := json.Unmarshal(resp.Data, &listData)
		require.NoError(t, err)

		for _, s := range listData.Slots {
			assert.NotEqual(t, slotID, s.SlotID, "容量1的时段被约满后不应出现在可预约列表")
		}

		t.Logf("✓ 满员时段已从可预约列表消失")
	})

	t.Run("日期格式错误应失败", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/slots/date/%s", BaseURL, "2026-13-99"), "")
		assert.Equal(t, 40000, resp.Code, "非法日期应返回参数错误")
	})
}
