package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check probes one dependency for the health endpoint.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Handler struct{ checks []Check }

func NewHandler(checks ...Check) *Handler { return &Handler{checks: checks} }

// Health answers 200 when every probe passes and 503 otherwise.
func (h *Handler) Health(c echo.Context) error {
	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(h.checks))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	for _, chk := range h.checks {
		if err := chk.Probe(ctx); err != nil {
			results[chk.Name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[chk.Name] = "ok"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	return c.JSON(code, body)
}
