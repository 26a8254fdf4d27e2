package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/shared/response"
	"journal-backend/pkg/container"
)

// healthCheckHandler reports liveness plus dependency status.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "ok"
		checks := gin.H{}

		dbCtx := ctx.Request.Context()
		if err := c.DB.HealthCheck(dbCtx); err != nil {
			status = "degraded"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}

		if err := c.Cache.Ping(dbCtx); err != nil {
			status = "degraded"
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		ctx.JSON(code, gin.H{
			"status":      status,
			"service":     c.Config.App.Name,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"checks":      checks,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// databaseTestHandler verifies connectivity with a round trip query.
func databaseTestHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var now time.Time
		err := c.DB.Pool.QueryRow(ctx.Request.Context(), "SELECT NOW()").Scan(&now)
		if err != nil {
			response.InternalServerError(ctx, "Database query failed")
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"database_time": now,
		})
	}
}
