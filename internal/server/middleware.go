package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	authRealm         = `Basic realm="subscriptions"`
	contextAPIUserKey = "api_user"
)

// CORS allows browser clients from the configured origins. An empty list or
// "*" allows every origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id", "X-Correlation-Id"},
		ExposeHeaders: []string{"X-Request-Id", "X-Correlation-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(origins) == 0
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// BasicAuthRequired rejects requests without valid API credentials.
func (s *Server) BasicAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticator.Enabled() {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", authRealm)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authenticator.Authenticate(username, password); err != nil {
			logger.FromContext(c.Request.Context()).Warn("api authentication failed",
				zap.String("username", username),
				zap.String("client_ip", c.ClientIP()),
			)
			c.Header("WWW-Authenticate", authRealm)
			AbortWithError(c, err)
			return
		}

		c.Set(contextAPIUserKey, username)
		c.Next()
	}
}
