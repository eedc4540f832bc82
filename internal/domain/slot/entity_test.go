package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTimesOverlap 测试半开区间重叠判定
// 关键场景:相邻时段(一个结束正好是另一个开始)不算冲突
func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"完全相同", "10:00:00", "11:00:00", "10:00:00", "11:00:00", true},
		{"部分重叠", "10:00:00", "11:00:00", "10:30:00", "11:30:00", true},
		{"包含关系", "09:00:00", "12:00:00", "10:00:00", "11:00:00", true},
		{"相邻不冲突_a先", "10:00:00", "11:00:00", "11:00:00", "12:00:00", false},
		{"相邻不冲突_b先", "11:00:00", "12:00:00", "10:00:00", "11:00:00", false},
		{"完全分离", "08:00:00", "09:00:00", "14:00:00", "15:00:00", false},
		{"只差一秒算重叠", "10:00:00", "11:00:01", "11:00:00", "12:00:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.want, got)

			// 重叠关系是对称的
			assert.Equal(t, tt.want, TimesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

// TestDeriveStatus 测试时段状态推导
// 规则:Closed当且仅当Confirmed数量达到容量
func TestDeriveStatus(t *testing.T) {
	s := &Slot{Capacity: 3, Status: StatusOpen}

	assert.Equal(t, StatusOpen, s.DeriveStatus(0))
	assert.Equal(t, StatusOpen, s.DeriveStatus(2))
	assert.Equal(t, StatusClosed, s.DeriveStatus(3))
	// 超卖不应该发生,但状态推导仍然给出Closed
	assert.Equal(t, StatusClosed, s.DeriveStatus(4))
}

// TestDeriveStatusCapacityOne 容量为1的时段:一次预约即满员,一次取消即重开
func TestDeriveStatusCapacityOne(t *testing.T) {
	s := &Slot{Capacity: 1}

	assert.Equal(t, StatusClosed, s.DeriveStatus(1))
	assert.Equal(t, StatusOpen, s.DeriveStatus(0))
}

func TestNewSlot(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	s := NewSlot(date, "10:00:00", "11:00:00", 2, "图书馆201", 7, 3)

	assert.Equal(t, StatusOpen, s.Status, "新时段初始状态应为Open")
	assert.Equal(t, uint(7), s.TutorID)
	assert.Equal(t, uint(3), s.CourseID)
	assert.True(t, s.IsOpen())
}

func TestSameDay(t *testing.T) {
	s := &Slot{Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)}

	assert.True(t, s.SameDay(time.Date(2026, 9, 1, 23, 59, 0, 0, time.Local)), "忽略时分秒")
	assert.False(t, s.SameDay(time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)))
}

func TestOverlaps(t *testing.T) {
	s := &Slot{StartTime: "10:00:00", EndTime: "11:00:00"}

	assert.True(t, s.Overlaps("10:30:00", "11:30:00"))
	assert.False(t, s.Overlaps("11:00:00", "12:00:00"), "相邻时段不算冲突")
}
