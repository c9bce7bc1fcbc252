package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 5 * time.Second

// Per-dependency readiness states.
const (
	checkOK        = "ok"
	checkDisabled  = "disabled"
	checkUnhealthy = "unhealthy"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be nil
// when the audit trail or idempotency store is disabled.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings every configured dependency and reports each one. Any unhealthy
// dependency makes the whole probe 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := map[string]string{
		"postgres": checkDisabled,
		"redis":    checkDisabled,
	}

	if h.pool != nil {
		resp["postgres"] = check(h.pool.Ping(ctx))
	}
	if h.redisClient != nil {
		resp["redis"] = check(h.redisClient.Ping(ctx).Err())
	}

	status := http.StatusOK
	resp["status"] = "ready"
	for _, state := range resp {
		if state == checkUnhealthy {
			status = http.StatusServiceUnavailable
			resp["status"] = "unavailable"
			break
		}
	}

	writeJSON(w, status, resp)
}

func check(err error) string {
	if err != nil {
		return checkUnhealthy
	}
	return checkOK
}
