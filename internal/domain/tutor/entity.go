package tutor

import (
	"time"
)

// Tutor 导师实体（聚合根）
// 设计说明：
// 1. RatingAverage是冗余字段，由评价提交用例在同一事务内重算并回写
// 2. 导师与学生分表存储，角色写入JWT的Role字段区分
type Tutor struct {
	ID              uint
	FullName        string
	Email           string
	Password        string // bcrypt哈希值
	Bio             string
	ExperienceYears int
	RatingAverage   float64
	DateJoined      time.Time
}

// NewTutor 创建新导师（工厂方法）
func NewTutor(fullName, email, hashedPassword, bio string, experienceYears int) *Tutor {
	return &Tutor{
		FullName:        fullName,
		Email:           email,
		Password:        hashedPassword,
		Bio:             bio,
		ExperienceYears: experienceYears,
		DateJoined:      time.Now(),
	}
}
