// Package health serves the liveness endpoint.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"census/pkg/platform/httputil"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type Response struct {
	Status     Status                 `json:"status"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reported_at"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	critical bool
}

// Checker runs registered checks. A failing critical check makes the service
// unhealthy; any other failure only degrades it.
type Checker struct {
	checks    []check
	timeout   time.Duration
	startTime time.Time
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{timeout: timeout, startTime: time.Now()}
}

// Critical registers a check whose failure fails the health endpoint.
func (c *Checker) Critical(name string, fn CheckFunc) *Checker {
	c.checks = append(c.checks, check{name: name, fn: fn, critical: true})
	return c
}

// Optional registers a check whose failure only degrades the service.
func (c *Checker) Optional(name string, fn CheckFunc) *Checker {
	c.checks = append(c.checks, check{name: name, fn: fn})
	return c
}

// Check runs every registered check concurrently.
func (c *Checker) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(c.checks))
		overall = StatusHealthy
	)
	for _, chk := range c.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := chk.fn(ctx)
			result := CheckResult{Status: StatusHealthy, Latency: time.Since(start).String()}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Message = err.Error()
				if chk.critical {
					result.Status = StatusUnhealthy
					overall = StatusUnhealthy
				} else {
					result.Status = StatusDegraded
					if overall == StatusHealthy {
						overall = StatusDegraded
					}
				}
			}
			results[chk.name] = result
		}()
	}
	wg.Wait()

	return Response{
		Status:     overall,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     results,
		ReportedAt: time.Now().UTC(),
	}
}

// Handler serves the check result, with 503 when unhealthy.
func (c *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	resp := c.Check(r.Context())
	status := http.StatusOK
	if resp.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
