package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStudentProfile 测试学生资料与密码修改
func TestStudentProfile(t *testing.T) {
	studentID, token := RegisterTestStudent(t, "profile")

	t.Run("查看资料", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/students/me", token)
		require.Equal(t, 0, resp.Code, "查看资料失败: %s", resp.Message)

		var data struct {
			ID       uint   `json:"id"`
			FullName string `json:"full_name"`
			Email    string `json:"email"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, studentID, data.ID)
	})

	t.Run("旧密码错误不能改密码", func(t *testing.T) {
		resp := doJSON(t, "PUT", BaseURL+"/students/me/password", map[string]string{
			"old_password": "WrongPass1",
			"new_password": "NewPass123",
		}, token)
		assert.Equal(t, 40103, resp.Code, "旧密码错误应返回40103")
	})

	t.Run("修改密码后新密码可登录", func(t *testing.T) {
		resp := doJSON(t, "PUT", BaseURL+"/students/me/password", map[string]string{
			"old_password": "Test1234",
			"new_password": "NewPass123",
		}, token)
		require.Equal(t, 0, resp.Code, "修改密码失败: %s", resp.Message)

		// 取回邮箱再用新密码登录
		profileResp := GetJSON(t, BaseURL+"/students/me", token)
		require.Equal(t, 0, profileResp.Code)

		var profile struct {
			Email string `json:"email"`
		}
		require.NoError(t, json.Unmarshal(profileResp.Data, &profile))

		loginResp := PostJSON(t, BaseURL+"/auth/students/login", map[string]string{
			"email":    profile.Email,
			"password": "NewPass123",
		}, "")
		assert.Equal(t, 0, loginResp.Code, "新密码应该可以登录")
	})
}

// TestDeleteAccount 测试账号注销
// 同一事务内清理评价、出席、预约、选课，占用的名额释放，之后Token失效
func TestDeleteAccount(t *testing.T) {
	_, courseID, tutorToken := RegisterTestTutor(t, "delete_tutor")
	_, token := RegisterTestStudent(t, "delete_student")

	// 容量1的时段：注销学生的预约会让它满员关闭
	slotID := CreateTestSlot(t, tutorToken, courseID, "10:00", "11:00", 1)
	bookResp := BookSlot(t, token, slotID)
	require.Equal(t, 0, bookResp.Code, "预约失败: %s", bookResp.Message)

	resp := DeleteJSON(t, BaseURL+"/students/me", token)
	require.Equal(t, 0, resp.Code, "注销失败: %s", resp.Message)

	// 注销后Token被吊销
	profileResp := GetJSON(t, BaseURL+"/students/me", token)
	assert.NotEqual(t, 0, profileResp.Code, "注销后Token应失效")

	// 注销释放名额：其他学生可以预约原本已关闭的时段
	_, otherToken := RegisterTestStudent(t, "delete_other")
	rebookResp := BookSlot(t, otherToken, slotID)
	assert.Equal(t, 0, rebookResp.Code, "注销后时段应重开: %s", rebookResp.Message)

	t.Logf("✓ 账号注销完成，名额已释放，Token已失效: %s", profileResp.Message)
}
