package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	operatorKey  = "operator"
)

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func operator(c *gin.Context) string {
	return c.GetString(operatorKey)
}

// requestIDMiddleware reuses the caller's X-Request-ID or generates one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"request_id", requestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if op := operator(c); op != "" {
			args = append(args, "operator", op)
		}
		s.logger.Info(c.Request.Context(), "http request", args...)
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := s.metrics.RequestStarted()
		defer done()

		start := time.Now()
		c.Next()
		s.metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// recoveryMiddleware turns a handler panic into a logged 500.
func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "request panic",
			"request_id", requestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
			"stack", string(debug.Stack()),
		)
		abortWithMessage(c, http.StatusInternalServerError, internalErrorMessage)
	})
}

// authMiddleware requires "Authorization: Bearer <token>" and stores the
// operator name in the gin context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err == nil {
			var name string
			name, err = s.users.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(operatorKey, name)
				c.Next()
				return
			}
		}

		s.logger.Warn(c.Request.Context(), "authentication failed",
			"request_id", requestID(c), "path", c.Request.URL.Path, "error", err)
		s.abortWithError(c, err)
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrTokenMissing
	}
	return token, nil
}

// maxLimiters bounds the per-client limiter map.
const maxLimiters = 10000

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l.Allow()
}

func (s *Server) rateLimitMiddleware(rl *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.allow(c.ClientIP()) {
			c.Next()
			return
		}
		s.logger.Warn(c.Request.Context(), "rate limit exceeded",
			"request_id", requestID(c), "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
		abortWithMessage(c, http.StatusTooManyRequests, "too many requests")
	}
}
