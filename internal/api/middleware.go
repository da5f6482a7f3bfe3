package api

import (
	"context"
	"places-autocomplete/internal/api/handlers"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates or assigns a request id and stores it in the request
// context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestLogger logs end-to-end request duration and response size.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.RequestURI()

		c.Next()

		// Size is -1 when nothing was written.
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		log.WithContext(c.Request.Context()).HTTPRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			size,
			float64(time.Since(start).Milliseconds()),
			c.ClientIP(),
		)
	}
}

// ipRateLimiter hands out one token bucket per client IP. Geocoding requests
// count against the access token's quota, so the fetch route is limited.
type ipRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

func newIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *ipRateLimiter {
	return &ipRateLimiter{rate: r, burst: burst, log: log}
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := i.limiters.Load(ip); ok {
		return l.(*rate.Limiter)
	}
	l, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return l.(*rate.Limiter)
}

func (i *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.limiter(ip).Allow() {
			i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			handlers.Abort(c, i.log, apperr.New(apperr.KindRateLimited, "rate limit exceeded"))
			return
		}
		c.Next()
	}
}
