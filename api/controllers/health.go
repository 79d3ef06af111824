package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live", "env": cfg.App.Env})
	}
}

// HealthReady pings the hard dependencies. Redis is optional; when it
// is down login rate limiting degrades but pickups still work, so it
// reports as a warning rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}

		if db == nil {
			checks["database"] = "not configured"
		} else if err := db.Ping(ctx); err != nil {
			if logg != nil {
				logg.Error(ctx, "health.db_unreachable", err)
			}
			checks["database"] = "unreachable"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "checks": checks})
			return
		} else {
			checks["database"] = "ok"
		}

		if cache == nil {
			checks["redis"] = "not configured"
		} else if err := cache.Ping(ctx); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "health.redis_unreachable")
			}
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
