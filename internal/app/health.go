package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker probes the stores the service cannot run without. The AI
// backend is deliberately not probed: generation failures degrade to failure
// titles on the session, they do not make the service unhealthy.
type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

func (h *HealthChecker) check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	type probe struct {
		name string
		err  error
	}
	results := make(chan probe, 2)

	go func() {
		results <- probe{"postgres", h.infra.Postgres().Ping(ctx)}
	}()
	go func() {
		results <- probe{"redis", h.infra.Redis().Ping(ctx)}
	}()

	checks := make(map[string]string, 2)
	for i := 0; i < 2; i++ {
		p := <-results
		if p.err != nil {
			checks[p.name] = p.err.Error()
		} else {
			checks[p.name] = "pass"
		}
	}
	return checks
}

func (h *HealthChecker) Handler(c *gin.Context) {
	checks := h.check(c.Request.Context())

	status := "pass"
	code := http.StatusOK
	for _, result := range checks {
		if result != "pass" {
			status = "fail"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
	})
}
