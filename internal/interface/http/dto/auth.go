package dto

// StudentRegisterRequest 学生注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type StudentRegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
}

// TutorRegisterRequest 导师注册请求
type TutorRegisterRequest struct {
	FullName        string `json:"full_name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=20"`
	Bio             string `json:"bio" binding:"max=2000"`
	ExperienceYears int    `json:"experience_years" binding:"min=0,max=60"`
}

// LoginRequest 登录请求（学生/导师共用）
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=20"`
}

// StudentResponse 学生响应（不包含密码）
type StudentResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// TutorResponse 导师响应
type TutorResponse struct {
	ID              uint    `json:"id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	RatingAverage   float64 `json:"rating_average"`
}
