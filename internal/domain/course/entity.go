package course

// Major 专业（课程的分类维度）
type Major struct {
	ID        uint
	MajorName string
}

// Course 课程实体
// 设计说明：
// 1. CourseCode全局唯一（如"CS101"），是对外展示的业务标识
// 2. Level是自由文本（如"Beginner"/"Intermediate"），不做枚举约束
// 3. 导师与课程、学生与课程是多对多关系，通过关联表维护
type Course struct {
	ID          uint
	CourseCode  string
	CourseName  string
	Description string
	Level       string
	MajorID     uint
	MajorName   string // join冗余字段，列表展示用
}
