// Package mq 预约事件发布的RabbitMQ实现
//
// 设计说明:
// 1. 实现application/booking.EventPublisher接口
// 2. 用熔断器包住Publish:MQ故障时快速失败,不拖慢预约请求
// 3. 配置关闭MQ时注入NoopPublisher,用例代码无需感知
package mq

import (
	"context"
	"log"
	"time"

	appbooking "github.com/xiebiao/tutorup/internal/application/booking"
	"github.com/xiebiao/tutorup/pkg/circuitbreaker"
	"github.com/xiebiao/tutorup/pkg/metrics"
	"github.com/xiebiao/tutorup/pkg/mq"
)

// 路由键约定:<聚合>.<动作>
const (
	RoutingKeyBookingCreated   = "booking.created"
	RoutingKeyBookingCancelled = "booking.cancelled"
)

// EventPublisher RabbitMQ事件发布器
type EventPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewEventPublisher 创建事件发布器
// exchange使用topic类型:消费者按路由键模式订阅(booking.*或booking.created)
func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	publisher, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	// 熔断策略:连续5次发布失败后熔断30秒
	// 事件发布是尽力而为,熔断期间直接失败由调用方记日志
	breaker := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[WARN] 熔断器状态切换 name=%s %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &EventPublisher{
		publisher: publisher,
		breaker:   breaker,
		exchange:  exchange,
	}, nil
}

// PublishBookingCreated 发布预约成功事件
func (p *EventPublisher) PublishBookingCreated(ctx context.Context, event *appbooking.BookingCreatedEvent) error {
	return p.publish(RoutingKeyBookingCreated, event)
}

// PublishBookingCancelled 发布预约取消事件
func (p *EventPublisher) PublishBookingCancelled(ctx context.Context, event *appbooking.BookingCancelledEvent) error {
	return p.publish(RoutingKeyBookingCancelled, event)
}

func (p *EventPublisher) publish(routingKey string, event interface{}) error {
	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, event)
	})

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
		"name":   "event-publisher",
		"result": result,
	})

	if err == nil {
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
			"exchange":    p.exchange,
			"routing_key": routingKey,
		})
	}

	return err
}

// Close 关闭底层连接
func (p *EventPublisher) Close() error {
	return p.publisher.Close()
}

// NoopPublisher 空实现(mq.enabled=false时使用)
type NoopPublisher struct{}

// NewNoopPublisher 创建空发布器
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishBookingCreated 什么也不做
func (p *NoopPublisher) PublishBookingCreated(ctx context.Context, event *appbooking.BookingCreatedEvent) error {
	return nil
}

// PublishBookingCancelled 什么也不做
func (p *NoopPublisher) PublishBookingCancelled(ctx context.Context, event *appbooking.BookingCancelledEvent) error {
	return nil
}
