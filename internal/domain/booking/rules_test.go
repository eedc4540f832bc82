package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/tutorup/internal/domain/slot"
)

// 教学说明:冲突规则是纯函数,不需要数据库就能覆盖全部分支
// 并发正确性(锁、事务)由集成测试验证,这里只验证规则本身

func newTarget(tutorID, courseID uint, start, end string) *slot.Slot {
	return &slot.Slot{
		ID:        100,
		StartTime: start,
		EndTime:   end,
		TutorID:   tutorID,
		CourseID:  courseID,
	}
}

func TestCheckDayConflicts(t *testing.T) {
	t.Run("无已有预约直接通过", func(t *testing.T) {
		target := newTarget(1, 1, "10:00:00", "11:00:00")
		assert.NoError(t, CheckDayConflicts(target, nil))
	})

	t.Run("同导师同课程被拒", func(t *testing.T) {
		target := newTarget(1, 1, "14:00:00", "15:00:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 1, CourseID: 1},
		}

		assert.ErrorIs(t, CheckDayConflicts(target, existing), ErrSameTutorSameDay)
	})

	t.Run("时间重叠被拒", func(t *testing.T) {
		target := newTarget(1, 1, "10:30:00", "11:30:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 2, CourseID: 2},
		}

		assert.ErrorIs(t, CheckDayConflicts(target, existing), ErrTimeOverlap)
	})

	t.Run("相邻时段不算重叠", func(t *testing.T) {
		target := newTarget(1, 1, "11:00:00", "12:00:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 2, CourseID: 2},
		}

		assert.NoError(t, CheckDayConflicts(target, existing))
	})

	t.Run("同课程不同导师被拒", func(t *testing.T) {
		target := newTarget(1, 5, "14:00:00", "15:00:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 2, CourseID: 5},
		}

		assert.ErrorIs(t, CheckDayConflicts(target, existing), ErrSameCourseSameDay)
	})

	t.Run("规则按固定顺序评估", func(t *testing.T) {
		// 同一条已有预约同时命中三条规则:
		// 同导师同课程 + 时间重叠 + 同课程
		// 错误必须是第一条规则的(给学生最具体的拒绝原因)
		target := newTarget(1, 1, "10:00:00", "11:00:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 1, CourseID: 1},
		}

		assert.ErrorIs(t, CheckDayConflicts(target, existing), ErrSameTutorSameDay)
	})

	t.Run("重叠优先于同课程", func(t *testing.T) {
		// 与A时间重叠,与B同课程:规则2先于规则3
		target := newTarget(1, 5, "10:30:00", "11:30:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 2, CourseID: 9},
			{SlotID: 3, StartTime: "14:00:00", EndTime: "15:00:00", TutorID: 3, CourseID: 5},
		}

		assert.ErrorIs(t, CheckDayConflicts(target, existing), ErrTimeOverlap)
	})

	t.Run("不同课程不同时间通过", func(t *testing.T) {
		target := newTarget(1, 5, "14:00:00", "15:00:00")
		existing := []DayBooking{
			{SlotID: 2, StartTime: "10:00:00", EndTime: "11:00:00", TutorID: 1, CourseID: 6},
			{SlotID: 3, StartTime: "16:00:00", EndTime: "17:00:00", TutorID: 2, CourseID: 7},
		}

		assert.NoError(t, CheckDayConflicts(target, existing))
	})
}
