package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id to and from clients
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an id, reusing the client's if sent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("requestID")).
			Msg("Request handled")
	}
}

// HTTPRecorder counts served requests
type HTTPRecorder interface {
	HTTPRequest(method, route, status string)
}

// Metrics counts every request by matched route
func Metrics(rec HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.HTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}

// OriginAllowed reports whether a browser origin may call the API:
// configured origins, any localhost or 127.0.0.1 port, and Vercel previews.
func OriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a != "" && strings.EqualFold(strings.TrimRight(a, "/"), origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || strings.HasSuffix(host, ".vercel.app")
}

// CORS answers preflights and reflects allowed origins. Requests from any
// other origin are refused with 403.
func CORS(allowed []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, allowed)
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// CacheControl sets caching headers: short for registration reads, longer
// for the event catalog, none for writes.
func CacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch {
		case c.Request.Method != http.MethodGet:
			c.Header("Cache-Control", "no-cache")
		case strings.Contains(c.Request.URL.Path, "registration"):
			c.Header("Cache-Control", "public, max-age=60")
		default:
			c.Header("Cache-Control", "public, max-age=300")
		}
		c.Next()
	}
}
