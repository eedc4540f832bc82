package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/tutorup/pkg/errors"
	"github.com/xiebiao/tutorup/pkg/metrics"
)

// StudentLock 学生级互斥锁(MySQL命名锁)
//
// 设计说明:
// 1. 预约规则校验的对象是"该学生当天的全部预约",时段行锁只能串行化
//    同一时段的并发,防不住同一学生并发预约两个不同时段绕过冲突规则,
//    所以需要一把以学生为粒度的锁
// 2. 用GET_LOCK/RELEASE_LOCK实现:锁绑定在数据库连接上,与事务同生命周期
//    管理,不引入额外组件
// 3. 锁名格式:student_booking_<studentID>,不同学生的锁互不干扰
//
// 教学要点:
// 1. GET_LOCK必须通过事务连接执行(getDB从context取tx),
//    否则锁挂在连接池的随机连接上,RELEASE_LOCK可能释放不掉
// 2. 等待超时返回0,触发ErrServerBusy(503),客户端可重试
// 3. MySQL在连接断开时自动释放命名锁,事务异常退出不会造成死锁
type StudentLock struct {
	db   *gorm.DB
	wait time.Duration
}

// NewStudentLock 创建学生锁
// wait是GET_LOCK的最长等待时间
func NewStudentLock(db *gorm.DB, wait time.Duration) *StudentLock {
	return &StudentLock{db: db, wait: wait}
}

// Acquire 获取学生锁(阻塞至多wait秒)
// 返回值语义:
// - nil: 成功持有锁
// - ErrServerBusy: 等待超时(该学生有另一个预约/取消正在进行)
// - 其他: 数据库错误
func (l *StudentLock) Acquire(ctx context.Context, studentID uint) error {
	lockName := lockNameFor(studentID)
	waitSeconds := int(l.wait.Seconds())

	start := time.Now()
	var result sql.NullInt64
	db := l.getDB(ctx)
	err := db.Raw("SELECT GET_LOCK(?, ?)", lockName, waitSeconds).Scan(&result).Error
	metrics.ObserveHistogram(metrics.LockWaitDuration, time.Since(start).Seconds())

	if err != nil {
		return apperrors.Wrap(err, "获取学生锁失败")
	}

	// GET_LOCK返回值:1=成功, 0=超时, NULL=错误
	if !result.Valid {
		return apperrors.New(apperrors.ErrCodeDatabaseError, "获取学生锁异常")
	}
	if result.Int64 != 1 {
		return apperrors.ErrServerBusy
	}

	return nil
}

// Release 释放学生锁
// 失败只记日志:事务提交/回滚后连接归还,MySQL会在连接复位时清理命名锁
func (l *StudentLock) Release(ctx context.Context, studentID uint) {
	lockName := lockNameFor(studentID)

	var result sql.NullInt64
	db := l.getDB(ctx)
	if err := db.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&result).Error; err != nil {
		log.Printf("[WARN] 释放学生锁失败 lock=%s: %v", lockName, err)
	}
}

func lockNameFor(studentID uint) string {
	return fmt.Sprintf("student_booking_%d", studentID)
}

// getDB 从context获取事务DB
// 锁必须和事务共用一条连接,所以这里优先取tx
func (l *StudentLock) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return l.db
}
