package dto

// MarkAttendanceRequest 标记出席请求（学生，bookingID在路径里）
type MarkAttendanceRequest struct {
	Attended string `json:"attended" binding:"required,oneof=Yes No"`
}

// TutorMarkAttendanceRequest 导师标记出席请求（按学生+时段定位预约）
type TutorMarkAttendanceRequest struct {
	StudentID uint   `json:"student_id" binding:"required"`
	SlotID    uint   `json:"slot_id" binding:"required"`
	Attended  string `json:"attended" binding:"required,oneof=Yes No"`
}

// SubmitReviewRequest 提交评价请求（bookingID在路径里）
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}
