package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/tutorup/pkg/tracing"
)

// Tracing 每个HTTP请求创建一个根Span
// 教学要点:
// 1. Span名用路由模板(如"POST /api/v1/bookings"),不用真实URL,
//    否则每个ID一个Span名,Jaeger里没法聚合
// 2. 带Span的Context要替换回Request,下游用例才能挂子Span
// 3. Tracer未初始化时otel全局默认是Noop实现,这里零开销
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" || path == "/metrics" {
			c.Next()
			return
		}

		ctx, span := tracing.StartSpan(c.Request.Context(), serviceName, c.Request.Method+" "+path)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", path),
		)

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
