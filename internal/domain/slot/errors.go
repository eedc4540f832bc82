package slot

import (
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// 时段领域错误定义
var (
	// ErrSlotNotFound 时段不存在
	ErrSlotNotFound = apperrors.ErrSlotNotFound

	// ErrSlotNotOpen 时段未开放预约(已满员或被关闭)
	ErrSlotNotOpen = apperrors.ErrSlotNotOpen

	// ErrInvalidSlotTime 开始时间必须早于结束时间
	ErrInvalidSlotTime = apperrors.ErrInvalidSlotTime

	// ErrInvalidCapacity 容量必须至少为1
	ErrInvalidCapacity = apperrors.New(apperrors.ErrCodeInvalidParams, "容量必须至少为1")

	// ErrInvalidDate 日期不能是过去
	ErrInvalidDate = apperrors.New(apperrors.ErrCodeInvalidParams, "不能创建过去日期的时段")
)
