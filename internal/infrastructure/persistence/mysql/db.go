package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/tutorup/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			// 使用UTC+8时间（配合MySQL的TZ=Asia/Shanghai）
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&MajorModel{},
		&StudentModel{},
		&TutorModel{},
		&CourseModel{},
		&TutorCourseModel{},
		&StudentCourseModel{},
		&SlotModel{},
		&BookingModel{},
		&AttendanceModel{},
		&ReviewModel{},
	)
}

// MajorModel GORM专业模型
type MajorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;comment:专业名称"`
}

// TableName 指定表名
func (MajorModel) TableName() string {
	return "majors"
}

// StudentModel GORM学生模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 学生和导师分表存储（两套独立的ID空间）
type StudentModel struct {
	ID         uint      `gorm:"primaryKey"`
	FullName   string    `gorm:"size:100;not null;comment:姓名"`
	Email      string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password   string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	DateJoined time.Time `gorm:"comment:注册时间"`
}

// TableName 指定表名
func (StudentModel) TableName() string {
	return "students"
}

// TutorModel GORM导师模型
// RatingAverage是冗余列，在评价写入事务内重算，避免读路径做聚合
type TutorModel struct {
	ID              uint      `gorm:"primaryKey"`
	FullName        string    `gorm:"size:100;not null;comment:姓名"`
	Email           string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password        string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Bio             string    `gorm:"type:text;comment:个人简介"`
	ExperienceYears int       `gorm:"default:0;comment:辅导年限"`
	RatingAverage   float64   `gorm:"type:decimal(3,2);default:0;comment:平均评分"`
	DateJoined      time.Time `gorm:"comment:注册时间"`
}

// TableName 指定表名
func (TutorModel) TableName() string {
	return "tutors"
}

// CourseModel GORM课程模型
type CourseModel struct {
	ID          uint   `gorm:"primaryKey"`
	CourseCode  string `gorm:"uniqueIndex;size:20;not null;comment:课程编号"`
	CourseName  string `gorm:"size:200;not null;comment:课程名称"`
	Description string `gorm:"type:text;comment:课程描述"`
	Level       string `gorm:"size:50;comment:难度级别"`
	MajorID     uint   `gorm:"index;not null;comment:所属专业ID"`
}

// TableName 指定表名
func (CourseModel) TableName() string {
	return "courses"
}

// TutorCourseModel 导师-课程关联（复合主键）
type TutorCourseModel struct {
	TutorID  uint `gorm:"primaryKey;autoIncrement:false"`
	CourseID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName 指定表名
func (TutorCourseModel) TableName() string {
	return "tutor_courses"
}

// StudentCourseModel 学生-课程关联（复合主键）
type StudentCourseModel struct {
	StudentID uint `gorm:"primaryKey;autoIncrement:false"`
	CourseID  uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName 指定表名
func (StudentCourseModel) TableName() string {
	return "student_courses"
}

// SlotModel GORM可预约时段模型
// 教学要点:
// 1. Date用DATE列，StartTime/EndTime用TIME列（字符串"HH:MM:SS"，可直接按字典序比较）
// 2. Status是派生状态：Closed当且仅当Confirmed数达到Capacity，
//    一致性由预约/取消事务在行锁内维护
// 3. idx_day复合索引服务按日期的列表查询
type SlotModel struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"type:date;index:idx_day;not null;comment:日期"`
	StartTime string    `gorm:"type:time;not null;comment:开始时间"`
	EndTime   string    `gorm:"type:time;not null;comment:结束时间"`
	Capacity  int       `gorm:"not null;default:1;comment:容量"`
	Location  string    `gorm:"size:200;comment:地点"`
	Status    string    `gorm:"type:enum('Open','Closed');default:'Open';comment:状态"`
	TutorID   uint      `gorm:"index;not null;comment:导师ID"`
	CourseID  uint      `gorm:"index;not null;comment:课程ID"`
}

// TableName 指定表名
func (SlotModel) TableName() string {
	return "availability_slots"
}

// BookingModel GORM预约模型
// 教学要点:
// 1. 没有(student_id, slot_id)唯一索引：Cancelled记录和新的Confirmed记录可以共存，
//    重复预约由应用层在学生锁内检查
// 2. idx_student_slot服务重复检查，idx_slot服务名额重算
type BookingModel struct {
	ID        uint      `gorm:"primaryKey"`
	Status    string    `gorm:"type:enum('Confirmed','Completed','Cancelled');default:'Confirmed';index;comment:状态"`
	SlotID    uint      `gorm:"index:idx_slot;index:idx_student_slot,priority:2;not null;comment:时段ID"`
	StudentID uint      `gorm:"index:idx_student_slot,priority:1;not null;comment:学生ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (BookingModel) TableName() string {
	return "bookings"
}

// AttendanceModel GORM出席记录模型
// BookingID既是主键也是外键（与Booking一对一）
type AttendanceModel struct {
	BookingID uint      `gorm:"primaryKey;autoIncrement:false"`
	Attended  string    `gorm:"type:enum('Yes','No');default:'No';comment:是否出席"`
	MarkedAt  time.Time `gorm:"comment:标记时间"`
}

// TableName 指定表名
func (AttendanceModel) TableName() string {
	return "attendances"
}

// ReviewModel GORM评价模型
// Rating的CHECK约束是第二道防线，应用层先校验
type ReviewModel struct {
	BookingID  uint      `gorm:"primaryKey;autoIncrement:false"`
	Rating     int       `gorm:"type:tinyint;not null;check:rating >= 1 AND rating <= 5;comment:评分1-5"`
	Comment    string    `gorm:"type:text;comment:评价内容"`
	ReviewDate time.Time `gorm:"comment:评价时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
