package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Check is a named readiness probe over one collaborator.
type Check struct {
	Name     string
	Probe    func(context.Context) error
	Timeout  time.Duration
	Critical bool
}

// Checker runs registered checks and reports overall health.
type Checker struct {
	mu     sync.RWMutex
	checks []*Check
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]checkResult `json:"checks,omitempty"`
}

func NewChecker() *Checker {
	return &Checker{}
}

// Register adds a check. A zero Timeout defaults to 5 seconds.
func (c *Checker) Register(check *Check) {
	if check.Timeout == 0 {
		check.Timeout = 5 * time.Second
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Run executes all checks and returns the aggregate response.
func (c *Checker) run(ctx context.Context) healthResponse {
	c.mu.RLock()
	checks := make([]*Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]checkResult, len(checks)),
	}

	for _, check := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, check.Timeout)
		err := check.Probe(probeCtx)
		cancel()

		result := checkResult{Status: "healthy", Message: "OK"}
		if err != nil {
			result.Message = err.Error()
			if check.Critical {
				result.Status = "unhealthy"
				resp.Status = "unhealthy"
			} else {
				result.Status = "degraded"
				if resp.Status == "healthy" {
					resp.Status = "degraded"
				}
			}
		}
		resp.Checks[check.Name] = result
	}
	return resp
}

// HealthHandler serves the aggregate health report.
func (c *Checker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.run(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// LivenessHandler reports that the process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}
