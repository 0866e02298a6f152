package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/logger"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// readinessCheck names the component it probes.
type readinessCheck struct {
	component string
	probe     func(ctx context.Context) error
}

func dbCheck(db Pinger) readinessCheck {
	return readinessCheck{component: "postgres", probe: pingOrNil(db)}
}

func upstreamCheck(api UpstreamAPI) readinessCheck {
	var probe func(ctx context.Context) error
	if api != nil {
		probe = api.Health
	}
	return readinessCheck{component: "auth-api", probe: probe}
}

func pingOrNil(p Pinger) func(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}

func (r readinessCheck) run(ctx context.Context) error {
	if r.probe == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	return r.probe(ctx)
}

func registerHealthRoutes(router *gin.Engine, check readinessCheck) {
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		if err := check.run(c.Request.Context()); err != nil {
			logger.FromContext(c).Warn("readiness check failed",
				zap.String("component", check.component), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "degraded",
				"component": check.component,
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// registerAPIHealth serves the health document the web front-end polls.
func registerAPIHealth(api *gin.RouterGroup, check readinessCheck) {
	api.GET("/health/", func(c *gin.Context) {
		if err := check.run(c.Request.Context()); err != nil {
			logger.FromContext(c).Warn("api health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "MentorIA API is running",
		})
	})
}
