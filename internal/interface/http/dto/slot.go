package dto

// CreateSlotRequest 发布时段请求（导师）
type CreateSlotRequest struct {
	CourseID  uint   `json:"course_id" binding:"required"`
	Date      string `json:"date" binding:"required"`       // "2006-01-02"
	StartTime string `json:"start_time" binding:"required"` // "HH:MM"或"HH:MM:SS"
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
	Location  string `json:"location" binding:"max=200"`
}
