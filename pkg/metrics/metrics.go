// Package metrics 提供基于Prometheus的指标收集框架
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、预约总数、错误总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的预约数、goroutine数量
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：预约事务耗时、锁等待耗时
//   - 特点：自动计算分位数（P50、P90、P99）
//
// # DO/DON'T对比
//
// ❌ DON'T: 手动记录日志统计（无法聚合、查询困难）
//
//	func CreateBooking() {
//	    start := time.Now()
//	    // ... 业务逻辑 ...
//	    log.Printf("预约耗时: %v", time.Since(start)) // ❌ 无法查询P99耗时
//	}
//
// ✅ DO: 使用Prometheus指标
//
//	func CreateBooking() {
//	    start := time.Now()
//
//	    // ... 业务逻辑 ...
//
//	    // 记录耗时（自动计算P50、P90、P99）
//	    metrics.ObserveHistogram(metrics.BookingCreationDuration, time.Since(start).Seconds())
//
//	    // 递增预约计数
//	    metrics.IncCounter(metrics.BookingsCreatedTotal)
//	}
//
// # 指标命名规范
//
// 1. **Counter**: 以`_total`结尾（bookings_created_total）
// 2. **Histogram**: 以单位结尾（booking_creation_duration_seconds）
// 3. **Gauge**: 使用现在时态（bookings_in_progress）
//
// # 最佳实践
//
// 1. 使用标签（Label）区分不同维度，如拒绝原因
// 2. 避免高基数标签：不要用student_id做标签（无界），用reason/status（有限个值）
// 3. Histogram桶按业务定制：锁等待集中在毫秒到5秒之间
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/bookings）、status（201/409）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 预约业务指标

	// BookingsCreatedTotal 预约创建成功总数（Counter）
	BookingsCreatedTotal prometheus.Counter

	// BookingsRejectedTotal 预约被业务规则拒绝的总数（Counter）
	// 标签：reason（duplicate/same_tutor/overlap/same_course/slot_closed/busy）
	BookingsRejectedTotal *prometheus.CounterVec

	// BookingsCancelledTotal 预约取消总数（Counter）
	BookingsCancelledTotal prometheus.Counter

	// BookingCreationDuration 预约事务耗时（Histogram）
	BookingCreationDuration prometheus.Histogram

	// BookingsInProgress 正在处理的预约请求数（Gauge）
	BookingsInProgress prometheus.Gauge

	// LockWaitDuration 学生级互斥锁等待耗时（Histogram）
	LockWaitDuration prometheus.Histogram

	// SlotStatusTransitionsTotal 时段状态切换总数（Counter）
	// 标签：to（Open/Closed）
	SlotStatusTransitionsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时（Histogram）
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 预约业务指标
	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "预约创建成功总数",
		},
	)

	BookingsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "预约被业务规则拒绝的总数",
		},
		[]string{"reason"}, // 标签：拒绝原因
	)

	BookingsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "预约取消总数",
		},
	)

	BookingCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "booking_creation_duration_seconds",
			Help: "预约事务耗时（秒）",
			// 预约事务包含行锁与学生锁等待，耗时可能到秒级
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	BookingsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookings_in_progress",
			Help: "正在处理的预约请求数",
		},
	)

	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "booking_lock_wait_duration_seconds",
			Help: "学生级互斥锁等待耗时（秒）",
			// GET_LOCK默认等待上限5秒
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
	)

	SlotStatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_status_transitions_total",
			Help: "时段状态切换总数",
		},
		[]string{"to"}, // 标签：目标状态（Open/Closed）
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"}, // 标签：熔断器名称
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // 标签：熔断器名称、结果（success/failure/rejected）
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"}, // 标签：交换机、路由键
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"}, // 标签：队列名称、结果（success/failure）
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
