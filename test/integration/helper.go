package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析、注册登录流程）封装成可复用的函数
//
// 运行前提：
//   1. 服务已在localhost:8080启动（make run）
//   2. MySQL可连接（测试会直接写tutor_courses做课程授权，这张表没有API入口）

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SlotData 时段响应数据
type SlotData struct {
	SlotID    uint   `json:"slot_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// BookingData 预约响应数据
type BookingData struct {
	BookingID  uint   `json:"booking_id"`
	SlotID     uint   `json:"slot_id"`
	Status     string `json:"status"`
	SlotStatus string `json:"slot_status"`
}

// CancelData 取消预约响应数据
type CancelData struct {
	BookingID  uint   `json:"booking_id"`
	Status     string `json:"status"`
	SlotStatus string `json:"slot_status"`
}

// SessionListData 课程表响应数据
type SessionListData struct {
	Sessions []SessionItem `json:"sessions"`
	Total    int           `json:"total"`
}

// SessionItem 课程表条目
type SessionItem struct {
	BookingID   uint   `json:"booking_id"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CourseCode  string `json:"course_code"`
	CourseName  string `json:"course_name"`
	TutorName   string `json:"tutor_name"`
	StudentName string `json:"student_name"`
	Attended    string `json:"attended"`
	Rating      int    `json:"rating"`
}

// doJSON 发送HTTP请求并解析JSON响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "POST", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "GET", url, nil, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "DELETE", url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
// 使用纳秒时间戳确保唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// RegisterTestStudent 注册测试学生并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestStudent(t *testing.T, name string) (studentID uint, token string) {
	email := GenerateTestEmail(name)
	registerReq := map[string]string{
		"full_name": "学生" + name,
		"email":     email,
		"password":  "Test1234",
	}

	registerResp := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "学生注册失败: %s", registerResp.Message)

	var registerData RegisterData
	err := json.Unmarshal(registerResp.Data, &registerData)
	require.NoError(t, err, "解析注册响应失败")

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/auth/students/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "学生登录失败: %s", loginResp.Message)

	var loginData LoginData
	err = json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return registerData.ID, loginData.AccessToken
}

// RegisterTestTutor 注册测试导师并授权一门课程，返回导师Token与课程ID
//
// 教学说明：
// tutor_courses（导师授课表）没有对外API，属于教务侧主数据，
// 所以这里直连数据库插入授权记录，这是集成测试里常见的"后门准备数据"手法
func RegisterTestTutor(t *testing.T, name string) (tutorID uint, courseID uint, token string) {
	email := GenerateTestEmail(name)
	registerReq := map[string]interface{}{
		"full_name":        "导师" + name,
		"email":            email,
		"password":         "Test1234",
		"bio":              "集成测试导师",
		"experience_years": 3,
	}

	registerResp := PostJSON(t, BaseURL+"/auth/tutors/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "导师注册失败: %s", registerResp.Message)

	var registerData RegisterData
	err := json.Unmarshal(registerResp.Data, &registerData)
	require.NoError(t, err, "解析注册响应失败")
	tutorID = registerData.ID

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/auth/tutors/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "导师登录失败: %s", loginResp.Message)

	var loginData LoginData
	err = json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	courseID = CreateTestCourse(t)
	AssignCourse(t, tutorID, courseID)

	return tutorID, courseID, loginData.AccessToken
}

// CreateTestSlot 用导师Token发布一个明天的时段并返回时段ID
func CreateTestSlot(t *testing.T, tutorToken string, courseID uint, startTime, endTime string, capacity int) uint {
	slotReq := map[string]interface{}{
		"course_id":  courseID,
		"date":       Tomorrow(),
		"start_time": startTime,
		"end_time":   endTime,
		"capacity":   capacity,
		"location":   "图书馆201",
	}

	slotResp := PostJSON(t, BaseURL+"/slots", slotReq, tutorToken)
	require.Equal(t, 0, slotResp.Code, "发布时段失败: %s", slotResp.Message)

	var slotData SlotData
	err := json.Unmarshal(slotResp.Data, &slotData)
	require.NoError(t, err, "解析时段响应失败")

	return slotData.SlotID
}

// BookSlot 用学生Token预约时段
func BookSlot(t *testing.T, studentToken string, slotID uint) *Response {
	return PostJSON(t, BaseURL+"/bookings", map[string]interface{}{"slot_id": slotID}, studentToken)
}

// Tomorrow 明天的日期（YYYY-MM-DD）
// 测试统一用明天的时段，避开"不能预约过去时段"的规则
func Tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

// =========================================
// 数据库直连（仅用于准备授课数据）
// =========================================

var (
	dbOnce sync.Once
	testDB *gorm.DB
)

// DB 获取测试数据库连接（懒加载，整个测试进程复用一条连接）
func DB(t *testing.T) *gorm.DB {
	dbOnce.Do(func() {
		dsn := os.Getenv("TUTORUP_TEST_DSN")
		if dsn == "" {
			dsn = "root:root123@tcp(localhost:3306)/tutorup?charset=utf8mb4&parseTime=True&loc=Local"
		}

		db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			testDB = db
		}
	})

	require.NotNil(t, testDB, "连接测试数据库失败，检查TUTORUP_TEST_DSN")
	return testDB
}

// CreateTestCourse 插入一门测试课程（连带专业）并返回课程ID
func CreateTestCourse(t *testing.T) uint {
	db := DB(t)

	var majorID uint
	err := db.Raw("SELECT id FROM majors LIMIT 1").Scan(&majorID).Error
	require.NoError(t, err, "查询专业失败")
	if majorID == 0 {
		require.NoError(t, db.Exec("INSERT INTO majors (name) VALUES ('计算机科学')").Error)
		require.NoError(t, db.Raw("SELECT id FROM majors LIMIT 1").Scan(&majorID).Error)
	}

	code := fmt.Sprintf("T%d", time.Now().UnixNano()%1000000000)
	err = db.Exec(
		"INSERT INTO courses (course_code, course_name, description, level, major_id) VALUES (?, ?, ?, ?, ?)",
		code, "集成测试课程", "integration test", "Beginner", majorID,
	).Error
	require.NoError(t, err, "插入课程失败")

	var courseID uint
	err = db.Raw("SELECT id FROM courses WHERE course_code = ?", code).Scan(&courseID).Error
	require.NoError(t, err, "查询课程ID失败")
	require.NotZero(t, courseID)

	return courseID
}

// AssignCourse 授权导师教授课程
func AssignCourse(t *testing.T, tutorID, courseID uint) {
	err := DB(t).Exec(
		"INSERT INTO tutor_courses (tutor_id, course_id) VALUES (?, ?)",
		tutorID, courseID,
	).Error
	require.NoError(t, err, "插入授课记录失败")
}
