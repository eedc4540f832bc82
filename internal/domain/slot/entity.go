package slot

import (
	"time"
)

// Status 时段状态
// 教学要点:
// 1. Status是派生状态,不是独立事实:Closed当且仅当Confirmed预约数达到Capacity
// 2. 使用string类型与数据库enum对应,日志可读性好
type Status string

const (
	StatusOpen   Status = "Open"   // 开放预约
	StatusClosed Status = "Closed" // 已满员
)

// Slot 可预约时段实体(聚合根)
// 设计说明:
// 1. Date是DATE语义(只关心哪一天),StartTime/EndTime是"HH:MM:SS"字符串,
//    与MySQL的TIME列一一对应,且可以直接按字典序比较
// 2. Status由预约/取消事务在行锁内同步,读路径不做推导
type Slot struct {
	ID        uint
	Date      time.Time // 日期(时分秒无意义)
	StartTime string    // "HH:MM:SS"
	EndTime   string    // "HH:MM:SS"
	Capacity  int
	Location  string
	Status    Status
	TutorID   uint
	CourseID  uint
}

// NewSlot 创建新时段(工厂方法)
// 校验交给调用方的领域服务/用例(开始必须早于结束,容量至少为1)
func NewSlot(date time.Time, startTime, endTime string, capacity int, location string, tutorID, courseID uint) *Slot {
	return &Slot{
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Capacity:  capacity,
		Location:  location,
		Status:    StatusOpen,
		TutorID:   tutorID,
		CourseID:  courseID,
	}
}

// IsOpen 是否开放预约
func (s *Slot) IsOpen() bool {
	return s.Status == StatusOpen
}

// DeriveStatus 根据Confirmed数量推导状态
// 规则:confirmed >= Capacity → Closed,否则Open
// 教学要点:预约和取消共用这一条规则,保证两边不会各写一套而产生分歧
func (s *Slot) DeriveStatus(confirmedCount int) Status {
	if confirmedCount >= s.Capacity {
		return StatusClosed
	}
	return StatusOpen
}

// SameDay 是否同一天(忽略时分秒)
func (s *Slot) SameDay(other time.Time) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TimesOverlap 判断两个时间段是否重叠(半开区间[start, end))
// 规则:不重叠当且仅当 aEnd <= bStart 或 aStart >= bEnd
// 教学要点:
// 1. 半开区间意味着"14:00结束"和"14:00开始"的两个时段不算冲突
// 2. "HH:MM:SS"格式字符串的字典序与时间序一致,可直接比较
func TimesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// Overlaps 当前时段与给定时间段是否重叠(只比较时间,不比较日期)
func (s *Slot) Overlaps(start, end string) bool {
	return TimesOverlap(s.StartTime, s.EndTime, start, end)
}
