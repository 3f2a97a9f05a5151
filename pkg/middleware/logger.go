// pkg/middleware/logger.go

package middleware

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// NewRequestIDGenerator возвращает генератор ULID для echo RequestID.
func NewRequestIDGenerator() func() string {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
	}
}

// RequestLogger пишет строку лога на каждый запрос.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case res.Status >= 500:
				logger.Error("HTTP запрос", fields...)
			case res.Status >= 400:
				logger.Warn("HTTP запрос", fields...)
			default:
				logger.Info("HTTP запрос", fields...)
			}
			return nil
		}
	}
}
