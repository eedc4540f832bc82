package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewBooking 新预约初始状态固定为Confirmed
func TestNewBooking(t *testing.T) {
	b := NewBooking(10, 20)

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, uint(10), b.SlotID)
	assert.Equal(t, uint(20), b.StudentID)
	assert.False(t, b.CreatedAt.IsZero())
}

// TestStatusTransitions 测试预约状态机
// Confirmed可以转到Completed或Cancelled,两个终态不允许任何转换
func TestStatusTransitions(t *testing.T) {
	t.Run("Confirmed可以取消", func(t *testing.T) {
		b := NewBooking(1, 1)
		assert.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("Confirmed可以完成", func(t *testing.T) {
		b := NewBooking(1, 1)
		assert.NoError(t, b.Complete())
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("Cancelled是终态", func(t *testing.T) {
		b := NewBooking(1, 1)
		assert.NoError(t, b.Cancel())

		assert.ErrorIs(t, b.Cancel(), ErrInvalidStatusTransition)
		assert.ErrorIs(t, b.Complete(), ErrInvalidStatusTransition)
		assert.Equal(t, StatusCancelled, b.Status, "失败的转换不应修改状态")
	})

	t.Run("Completed是终态", func(t *testing.T) {
		b := NewBooking(1, 1)
		assert.NoError(t, b.Complete())

		assert.ErrorIs(t, b.Cancel(), ErrInvalidStatusTransition)
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("未知状态拒绝所有转换", func(t *testing.T) {
		b := &Booking{Status: Status("Pending")}
		assert.False(t, b.CanTransitionTo(StatusCancelled))
	})
}

func TestIsOwnedBy(t *testing.T) {
	b := NewBooking(1, 42)

	assert.True(t, b.IsOwnedBy(42))
	assert.False(t, b.IsOwnedBy(43))
}
