package main

import (
	"github.com/gin-gonic/gin"

	"journal-backend/internal/shared/middleware"
	"journal-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/db-test", databaseTestHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupSubmissionRoutes(v1, c)
		setupEditorRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES (public)
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	c.UserHandler.RegisterPublicRoutes(v1)
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	c.UserHandler.RegisterRoutes(authed)
}

// ========================================
// SUBMISSION ROUTES (authors)
// ========================================
func setupSubmissionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))

	c.SubmissionHandler.RegisterRoutes(authed)
	c.FileHandler.RegisterRoutes(authed)
}

// ========================================
// EDITOR ROUTES
// ========================================
func setupEditorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	editor := v1.Group("/editor")
	editor.Use(middleware.AuthMiddleware(c.JWTManager), middleware.EditorMiddleware())

	c.SubmissionHandler.RegisterEditorRoutes(editor)
}
