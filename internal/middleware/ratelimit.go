package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/logger"
)

// RateLimit admits a bounded number of requests per client IP. When the
// limiter store fails the request is let through.
func RateLimit(lim *limiter.Limiter) gin.HandlerFunc {
	return mgin.NewMiddleware(lim,
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("Rate limiter unavailable, allowing request")
			c.Next()
		}),
	)
}

func limitReached(c *gin.Context) {
	if reset, err := strconv.ParseInt(c.Writer.Header().Get("X-RateLimit-Reset"), 10, 64); err == nil {
		wait := time.Until(time.Unix(reset, 0)).Round(time.Second)
		if wait < 0 {
			wait = 0
		}
		c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())))
	}
	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTooManyRequests, "Too many requests").
		WithCode(apperrors.CodeTooManyRequests))
}
