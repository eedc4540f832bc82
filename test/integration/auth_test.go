package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：认证模块集成测试
//
// 集成测试 vs 单元测试：
// - 单元测试：Mock外部依赖（数据库、Redis），测试单个函数的逻辑
// - 集成测试：使用真实的数据库和Redis，测试完整的API流程
//
// 运行方式：
//   go test -v ./test/integration/...   # 需要先启动服务

// TestStudentRegister 测试学生注册功能
func TestStudentRegister(t *testing.T) {
	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("student_reg")
		registerReq := map[string]string{
			"full_name": "张三",
			"email":     email,
			"password":  "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")
		assert.Equal(t, 0, resp.Code, "注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "学生ID应该大于0")
		assert.Equal(t, email, data.Email)
		assert.Equal(t, "张三", data.FullName)

		t.Logf("✓ 注册成功，学生ID: %d", data.ID)
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("student_dup")
		registerReq := map[string]string{
			"full_name": "学生一",
			"email":     email,
			"password":  "Test1234",
		}

		resp1 := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")
		require.Equal(t, 0, resp1.Code, "第一次注册应该成功")

		registerReq["full_name"] = "学生二"
		resp2 := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")

		// 40906: 邮箱已存在（409 Conflict + 06业务码）
		assert.Equal(t, 40906, resp2.Code, "重复邮箱注册应该返回40906")

		t.Logf("✓ 重复邮箱注册正确返回错误: %s", resp2.Message)
	})

	t.Run("弱密码应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"full_name": "弱密码学生",
			"email":     GenerateTestEmail("weak_pwd"),
			"password":  "abcdefgh", // 没有数字
		}

		resp := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "弱密码应该被拒绝")

		t.Logf("✓ 弱密码正确返回错误: %s", resp.Message)
	})

	t.Run("邮箱格式错误应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"full_name": "坏邮箱学生",
			"email":     "invalid-email",
			"password":  "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/auth/students/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "邮箱格式错误应该失败")
	})
}

// TestTutorRegister 测试导师注册功能
func TestTutorRegister(t *testing.T) {
	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("tutor_reg")
		registerReq := map[string]interface{}{
			"full_name":        "李老师",
			"email":            email,
			"password":         "Test1234",
			"bio":              "数学辅导五年",
			"experience_years": 5,
		}

		resp := PostJSON(t, BaseURL+"/auth/tutors/register", registerReq, "")
		assert.Equal(t, 0, resp.Code, "导师注册应该成功: %s", resp.Message)

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.NotZero(t, data.ID)

		t.Logf("✓ 导师注册成功，ID: %d", data.ID)
	})

	t.Run("辅导年限超范围应失败", func(t *testing.T) {
		registerReq := map[string]interface{}{
			"full_name":        "年限异常",
			"email":            GenerateTestEmail("tutor_years"),
			"password":         "Test1234",
			"experience_years": 99,
		}

		resp := PostJSON(t, BaseURL+"/auth/tutors/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "辅导年限超范围应该失败")
	})
}

// TestRoleSeparation 测试角色隔离
// 学生Token不能访问导师接口，导师Token不能访问学生接口
func TestRoleSeparation(t *testing.T) {
	_, studentToken := RegisterTestStudent(t, "role_student")
	_, courseID, tutorToken := RegisterTestTutor(t, "role_tutor")

	t.Run("学生不能发布时段", func(t *testing.T) {
		slotReq := map[string]interface{}{
			"course_id":  courseID,
			"date":       Tomorrow(),
			"start_time": "10:00",
			"end_time":   "11:00",
			"capacity":   1,
		}

		resp := PostJSON(t, BaseURL+"/slots", slotReq, studentToken)
		assert.Equal(t, 40300, resp.Code, "学生Token访问导师接口应返回40300")
	})

	t.Run("导师不能预约时段", func(t *testing.T) {
		slotID := CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 1)

		resp := BookSlot(t, tutorToken, slotID)
		assert.Equal(t, 40300, resp.Code, "导师Token访问学生接口应返回40300")
	})

	t.Run("无Token被拒", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/bookings", map[string]interface{}{"slot_id": 1}, "")
		assert.Equal(t, 40100, resp.Code, "未登录应返回40100")
	})
}

// TestStudentLogout 测试登出后Token失效
func TestStudentLogout(t *testing.T) {
	_, token := RegisterTestStudent(t, "logout")

	// 登出前可以访问
	resp := GetJSON(t, BaseURL+"/students/me", token)
	require.Equal(t, 0, resp.Code, "登出前应该可以访问个人资料")

	// 登出
	logoutResp := PostJSON(t, BaseURL+"/auth/students/logout", nil, token)
	require.Equal(t, 0, logoutResp.Code, "登出失败: %s", logoutResp.Message)

	// 登出后Token进入黑名单
	resp = GetJSON(t, BaseURL+"/students/me", token)
	assert.Equal(t, 40102, resp.Code, "登出后的Token应该失效")

	t.Logf("✓ 登出后Token正确失效: %s", resp.Message)
}
