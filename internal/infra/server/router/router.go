// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/controller"
	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	planningController       *controller.PlanningController
	recommendationController *controller.RecommendationController
	recommendationLimiter    *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	planningController *controller.PlanningController,
	recommendationController *controller.RecommendationController,
	recommendationLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:         healthController,
		planningController:       planningController,
		recommendationController: recommendationController,
		recommendationLimiter:    recommendationLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		planning := v1.Group("/planning")
		{
			planning.POST("/projection", r.planningController.Project)
			planning.POST("/conflicts", r.planningController.DetectConflicts)
			planning.POST("/allocation", r.planningController.Optimize)
		}

		clients := v1.Group("/clients/:clientId")
		{
			clients.POST("/plan", r.planningController.BuildPlan)
			clients.POST("/recommendations",
				r.recommendationLimiter.Middleware(),
				r.recommendationController.Get,
			)
		}

		v1.DELETE("/cache", r.recommendationController.ClearCache)
	}
}
