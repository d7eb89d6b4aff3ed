package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/markberon/sari-store-backend/api/responses"
	"github.com/markberon/sari-store-backend/pkg/config"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

const envHeader = "X-SariStore-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores. Redis is optional wiring; a nil
// pinger is skipped rather than reported as down.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if db != nil {
			checks["db"] = "ok"
			if err := db.Ping(ctx); err != nil {
				checks["db"] = "down"
				healthy = false
				logg.Error(ctx, "db ping failed", err)
			}
		}
		if redis != nil {
			checks["redis"] = "ok"
			if err := redis.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				logg.Error(ctx, "redis ping failed", err)
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
