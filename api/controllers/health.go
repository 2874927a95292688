package controllers

import (
	"net/http"

	"github.com/dmcortes/shoplane-backend/api/responses"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/db"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
	"github.com/dmcortes/shoplane-backend/pkg/logger"
	"github.com/dmcortes/shoplane-backend/pkg/redis"
)

const envHeader = "X-Shoplane-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the database and Redis respond.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
