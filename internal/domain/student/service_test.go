package student

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"bob.smith+tag@sub.example.org",
		"x_1@t.io",
	}
	for _, email := range valid {
		assert.True(t, isValidEmail(email), "应接受: %s", email)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@example.com",
		"alice@",
		"alice@example",
	}
	for _, email := range invalid {
		assert.False(t, isValidEmail(email), "应拒绝: %s", email)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Run("合法密码", func(t *testing.T) {
		assert.NoError(t, validatePasswordStrength("Passw0rd"))
		assert.NoError(t, validatePasswordStrength("a1234567"))
	})

	t.Run("过短", func(t *testing.T) {
		assert.ErrorIs(t, validatePasswordStrength("Ab1"), apperrors.ErrWeakPassword)
	})

	t.Run("过长", func(t *testing.T) {
		assert.ErrorIs(t, validatePasswordStrength("Abcdefgh1234567890123"), apperrors.ErrWeakPassword)
	})

	t.Run("缺少数字", func(t *testing.T) {
		assert.ErrorIs(t, validatePasswordStrength("OnlyLetters"), apperrors.ErrWeakPassword)
	})

	t.Run("缺少字母", func(t *testing.T) {
		assert.ErrorIs(t, validatePasswordStrength("1234567890"), apperrors.ErrWeakPassword)
	})
}
