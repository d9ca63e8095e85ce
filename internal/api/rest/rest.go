package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/pagemill/deploy-engine/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Provider webhook endpoint (authenticated by HMAC signature)
		v1.POST("/webhooks/github", handler.HandleGitHubWebhook)

		// Project webhook endpoints accept any HTTP method; the token in the
		// path is the authentication
		v1.Any("/webhooks/project/:token", handler.HandleProjectWebhook)

		// Job-status callbacks from the compute service
		v1.POST("/callbacks/jobs", handler.HandleJobCallback)

		// Outgoing webhook client registration (requires API key authentication only)
		v1.POST("/webhooks/clients", middleware.APIKeyAuth(authCfg), handler.CreateWebhookClient)

		// Read endpoints (require authentication)
		v1.GET("/events/:id", middleware.Auth(authCfg), handler.GetEvent)
		v1.GET("/jobs/:id", middleware.Auth(authCfg), handler.GetJob)
		v1.GET("/projects/:id/deployments", middleware.Auth(authCfg), handler.ListDeployments)
	}
}
