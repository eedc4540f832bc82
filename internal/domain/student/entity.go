package student

import (
	"time"
)

// Student 学生实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 3. 学生和导师分表存储，ID空间互相独立
type Student struct {
	ID         uint
	FullName   string
	Email      string
	Password   string // bcrypt哈希值
	DateJoined time.Time
}

// NewStudent 创建新学生（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewStudent(fullName, email, hashedPassword string) *Student {
	return &Student{
		FullName:   fullName,
		Email:      email,
		Password:   hashedPassword,
		DateJoined: time.Now(),
	}
}
