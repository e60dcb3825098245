package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecks are the probes behind GET /health. Nil probes are skipped.
type HealthChecks struct {
	DB    func(ctx context.Context) error
	Redis func(ctx context.Context) error
	// MailState reports the SMTP circuit breaker state ("closed", "open", "half-open").
	MailState func() string
}

// Health reports DB and Redis connectivity plus the mail circuit state.
// Only DB and Redis failures make the service unhealthy; an open mail
// breaker degrades email only. Never exposes credentials or internals.
func Health(checks HealthChecks) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		probe := func(fn func(context.Context) error) string {
			if fn == nil {
				return "skipped"
			}
			if fn(ctx) != nil {
				return "error"
			}
			return "connected"
		}
		dbStatus := probe(checks.DB)
		redisStatus := probe(checks.Redis)

		mail := "disabled"
		if checks.MailState != nil {
			mail = checks.MailState()
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"mail":  mail,
		})
	}
}
