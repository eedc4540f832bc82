package dto

// CreateBookingRequest 预约请求
// 说明：只接收slot_id，学生ID从JWT提取（防止冒用他人身份预约）
type CreateBookingRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}
