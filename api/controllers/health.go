package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sgavilan/leatherstore-backend/api/responses"
	"github.com/sgavilan/leatherstore-backend/pkg/config"
	"github.com/sgavilan/leatherstore-backend/pkg/db"
	pkgerrors "github.com/sgavilan/leatherstore-backend/pkg/errors"
	"github.com/sgavilan/leatherstore-backend/pkg/logger"
	"github.com/sgavilan/leatherstore-backend/pkg/redis"
)

const readyPingTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Leatherstore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Leatherstore-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
