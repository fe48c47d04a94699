package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger writes one line per request once the handler chain returns.
// Handler errors and 5xx log at error, 4xx at warn.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		errs := c.Errors.ByType(gin.ErrorTypePrivate)
		level, msg := zapcore.InfoLevel, "request completed"
		switch {
		case len(errs) > 0:
			level, msg = zapcore.ErrorLevel, "request failed"
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}
		fields := requestFields(c, status, time.Since(start))
		if len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}
		ce.Write(fields...)
	}
}

func requestFields(c *gin.Context, status int, latency time.Duration) []zap.Field {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	query := zap.Skip()
	if raw := c.Request.URL.RawQuery; raw != "" {
		query = zap.String("query", raw)
	}
	return []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		query,
		zap.String("route", route),
		zap.Int("bytes", c.Writer.Size()),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Duration("latency", latency),
	}
}
