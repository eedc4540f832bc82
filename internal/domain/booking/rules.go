package booking

import (
	"github.com/xiebiao/tutorup/internal/domain/slot"
)

// DayBooking 学生当天某个Confirmed预约的投影(join了时段信息)
// 仓储一次性加载学生当天的全部Confirmed预约,规则校验在内存中完成,
// 避免一条规则一条SQL(四次往返变一次)
type DayBooking struct {
	BookingID uint
	SlotID    uint
	StartTime string // "HH:MM:SS"
	EndTime   string
	TutorID   uint
	CourseID  uint
}

// CheckDayConflicts 对目标时段执行当天冲突规则校验
//
// 前提:existing已经按"同一学生、同一天、Confirmed"过滤;
// 调用方持有学生级互斥锁,校验期间不会有并发写入
//
// 规则按固定顺序评估,命中即返回(错误信息给学生最具体的拒绝原因):
// 1. 同导师+同课程:一天只能约同一位导师的同一门课一次
// 2. 时间重叠:半开区间[start,end),相邻时段不算冲突
// 3. 同课程:同一门课一天只能约一次(哪怕换了导师)
//
// 注意:重复预约同一时段的检查不在这里(需要查(student, slot)对,
// 且涉及删除旧的Cancelled记录),由用例在调用本函数之前单独处理
func CheckDayConflicts(target *slot.Slot, existing []DayBooking) error {
	// 规则1:同导师+同课程
	for _, e := range existing {
		if e.TutorID == target.TutorID && e.CourseID == target.CourseID {
			return ErrSameTutorSameDay
		}
	}

	// 规则2:时间重叠
	for _, e := range existing {
		if slot.TimesOverlap(e.StartTime, e.EndTime, target.StartTime, target.EndTime) {
			return ErrTimeOverlap
		}
	}

	// 规则3:同课程
	for _, e := range existing {
		if e.CourseID == target.CourseID {
			return ErrSameCourseSameDay
		}
	}

	return nil
}
