// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"memorial/internal/core/version"
	"memorial/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is anything /ready can probe
type Pinger interface {
	Ping(context.Context) error
}

// Check names one backend probed by /ready
// a nil Target means the backend is switched off
type Check struct {
	Name   string
	Target any
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check

	// ReadyTimeout bounds all probes together, 2s when zero
	ReadyTimeout time.Duration
}

const (
	statusOK       = "ok"
	statusFail     = "fail"
	statusSkipped  = "skipped"
	statusUnknown  = "unknown"
	statusDegraded = "degraded"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"memorial-api"`
	Started string `json:"started"  example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime_s" example:"300"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is ok when every probe passed, fail when any failed, degraded otherwise
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// Register mounts /health, /ready and /version
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: d.ServiceName,
		Started: d.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(d.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness with backend probes
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), d.ReadyTimeout)
	defer cancel()

	out := ReadyResponse{Status: statusOK, Checks: make([]ReadyCheck, len(d.Checks))}
	var g errgroup.Group
	for i, c := range d.Checks {
		g.Go(func() error {
			out.Checks[i] = probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range out.Checks {
		switch {
		case c.Status == statusFail:
			out.Status = statusFail
		case c.Status != statusOK && out.Status == statusOK:
			out.Status = statusDegraded
		}
	}
	if out.Status == statusFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func probe(ctx context.Context, c Check) ReadyCheck {
	rc := ReadyCheck{Name: c.Name}
	p, ok := c.Target.(Pinger)
	switch {
	case c.Target == nil:
		rc.Status = statusSkipped
	case !ok:
		rc.Status = statusUnknown
	default:
		if err := p.Ping(ctx); err != nil {
			rc.Status, rc.Error = statusFail, err.Error()
		} else {
			rc.Status = statusOK
		}
	}
	return rc
}
