package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/tutorup/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 记录请求总数、耗时分布、在途请求数
// 教学要点:
// 1. 标签用c.FullPath()(路由模板,如/api/v1/bookings/:bookingId),
//    不能用c.Request.URL.Path,否则每个ID都是一个新的时间序列(基数爆炸)
// 2. /metrics自身不记录,避免自我观测的噪音
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" || path == "/metrics" {
			c.Next()
			return
		}

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		start := time.Now()
		c.Next()

		labels := map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, labels)
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
