package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gridiron/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Handler provides health check endpoints.
//
// Postgres is required; ClickHouse and Redis are optional collaborators and
// may be nil, in which case their checks are skipped rather than reported
// unhealthy.
type Handler struct {
	log         *logger.Logger
	postgres    *sqlx.DB
	clickhouse  driver.Conn
	redis       *redis.Client
	startTime   time.Time
	serviceName string
	version     string
}

// New creates the health handler. Nil optional stores are simply absent
// from the checks map.
func New(
	log *logger.Logger,
	postgres *sqlx.DB,
	clickhouse driver.Conn,
	redis *redis.Client,
	serviceName string,
	version string,
) *Handler {
	return &Handler{
		log:         log,
		postgres:    postgres,
		clickhouse:  clickhouse,
		redis:       redis,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus is the aggregate health report. Status is one of healthy,
// degraded or unhealthy.
type HealthStatus struct {
	Status    string                     `json:"status"`
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is one store's check outcome
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness answers the liveness probe; reachable process means alive
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// HandleReadiness checks if service is ready to accept traffic.
// Only Postgres gates readiness: the serving pipeline can run without the
// audit trail, the event stream or the market cache, but not without its
// registry and feature store.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, _ := h.runChecks(ctx)

	status := h.report(checks)
	code := http.StatusOK
	if checks["postgres"].Status != "healthy" {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	writeJSON(w, code, status)
}

// HandleHealth returns detailed health status across all configured components
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthyCount := h.runChecks(ctx)

	status := h.report(checks)
	code := http.StatusOK
	switch {
	case healthyCount == 0:
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	case healthyCount < len(checks):
		// Degraded still serves traffic
		status.Status = "degraded"
	}

	writeJSON(w, code, status)
}

func (h *Handler) report(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, int) {
	checks := make(map[string]ComponentHealth)
	healthy := 0

	pg := h.check(ctx, "postgres", func(ctx context.Context) error {
		return h.postgres.PingContext(ctx)
	})
	checks["postgres"] = pg
	if pg.Status == "healthy" {
		healthy++
	}

	if h.clickhouse != nil {
		chk := h.check(ctx, "clickhouse", func(ctx context.Context) error {
			return h.clickhouse.Ping(ctx)
		})
		checks["clickhouse"] = chk
		if chk.Status == "healthy" {
			healthy++
		}
	}

	if h.redis != nil {
		chk := h.check(ctx, "redis", func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
		checks["redis"] = chk
		if chk.Status == "healthy" {
			healthy++
		}
	}

	return checks, healthy
}

func (h *Handler) check(ctx context.Context, name string, ping func(context.Context) error) ComponentHealth {
	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "component", name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}
