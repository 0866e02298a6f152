package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDHeader carries the request correlation identifier in both directions.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDKey = "mentoriaCorrelationID"

// Init builds the process logger at the given level and installs it as the zap global.
// An empty level means info.
func Init(levelName string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(levelName); raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logg, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	zap.ReplaceGlobals(logg)
	return logg, nil
}

// Middleware tags every request with a correlation id and logs its outcome.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := strings.TrimSpace(c.GetHeader(CorrelationIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		c.Next()

		fields := []zap.Field{
			zap.String("correlation_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			zap.L().Error("request", fields...)
		default:
			zap.L().Info("request", fields...)
		}
	}
}

// CorrelationID returns the id assigned by Middleware, or "" outside of it.
func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

// FromContext returns the global logger annotated with the request correlation id.
func FromContext(c *gin.Context) *zap.Logger {
	if id := CorrelationID(c); id != "" {
		return zap.L().With(zap.String("correlation_id", id))
	}
	return zap.L()
}
