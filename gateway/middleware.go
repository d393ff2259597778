package gateway

import (
	"strconv"
	"strings"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/metrics"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func metricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		reg.HTTPLatencySec.Observe(time.Since(start).Seconds())
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// requireStaff gates a route on a valid staff token.
func (g *Gateway) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := g.authService.Verify(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			g.abortWithError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func principalFrom(c *gin.Context) (service.Principal, error) {
	value, ok := c.Get(principalKey)
	if !ok {
		return service.Principal{}, apperror.Unauthorized("No token, authorization denied")
	}
	principal, ok := value.(service.Principal)
	if !ok {
		return service.Principal{}, apperror.Unauthorized("No token, authorization denied")
	}
	return principal, nil
}
