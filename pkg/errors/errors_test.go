package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHTTPStatus 错误码前三位即HTTP状态码
func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{ErrCodeInvalidParams, 400},
		{ErrCodeUnauthorized, 401},
		{ErrCodeForbidden, 403},
		{ErrCodeBookingNotFound, 404},
		{ErrCodeDuplicateBooking, 409},
		{ErrCodeInternal, 500},
		{ErrCodeServerBusy, 503},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "test").HTTPStatus())
		})
	}

	// 非法错误码兜底500
	assert.Equal(t, 500, New(42, "bad code").HTTPStatus())
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "数据库错误")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.ErrorIs(t, err, inner, "Wrap后应该能用errors.Is找到原始错误")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := GetAppError(ErrServerBusy)
		assert.Equal(t, ErrCodeServerBusy, appErr.Code)
	})

	t.Run("普通error包装为Internal", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
	})

	t.Run("嵌套的AppError能被提取", func(t *testing.T) {
		wrapped := fmt.Errorf("调用失败: %w", ErrSlotNotOpen)
		appErr := GetAppError(wrapped)
		assert.Equal(t, ErrCodeSlotNotOpen, appErr.Code)
	})
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrDuplicateBooking))
	assert.False(t, IsAppError(errors.New("plain")))
}
