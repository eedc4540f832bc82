package session

import (
	"time"
)

// 出席状态常量(与数据库enum('Yes','No')对应)
const (
	AttendedYes = "Yes"
	AttendedNo  = "No"
)

// Attendance 出席记录实体
// 设计说明:
// 1. BookingID既是主键也是外键,与预约一对一
// 2. 学生或导师都可以标记,重复标记是覆盖语义(upsert)
// 3. 低冲突场景,不加行锁:最后写入者赢
type Attendance struct {
	BookingID uint
	Attended  string // Yes / No
	MarkedAt  time.Time
}

// NewAttendance 创建出席记录
func NewAttendance(bookingID uint, attended string) *Attendance {
	return &Attendance{
		BookingID: bookingID,
		Attended:  attended,
		MarkedAt:  time.Now(),
	}
}

// IsValidAttended 出席状态是否合法
func IsValidAttended(v string) bool {
	return v == AttendedYes || v == AttendedNo
}

// Review 评价实体
// 业务规则(在用例中校验):
// 1. 出席记录必须是Yes才能评价
// 2. 一条预约只能评价一次
type Review struct {
	BookingID  uint
	Rating     int // 1-5
	Comment    string
	ReviewDate time.Time
}

// NewReview 创建评价
func NewReview(bookingID uint, rating int, comment string) *Review {
	return &Review{
		BookingID:  bookingID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: time.Now(),
	}
}

// IsValidRating 评分是否在1-5范围内
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
