package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/api/responses"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/redis"
)

// Liveness reports that the process is up.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"status": "ok"})
	}
}

// Readiness checks the backing stores. Redis is optional; the check only
// fails on the database.
func Readiness(conn *gorm.DB, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}

		cacheStatus := "ok"
		if cache == nil {
			cacheStatus = "disabled"
		} else if err := cache.Ping(r.Context()); err != nil {
			cacheStatus = "unavailable"
		}

		responses.WriteSuccess(w, map[string]any{
			"database": "ok",
			"cache":    cacheStatus,
		})
	}
}
