// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/richie-crm/planning-backend/config"
	"github.com/richie-crm/planning-backend/internal/application/usecase/planning"
	"github.com/richie-crm/planning-backend/internal/application/usecase/projection"
	"github.com/richie-crm/planning-backend/internal/application/usecase/recommendation"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
	"github.com/richie-crm/planning-backend/internal/infra/server/router"
	"github.com/richie-crm/planning-backend/internal/integration/adapters"
	rediscache "github.com/richie-crm/planning-backend/internal/integration/cache"
	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/controller"
	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/middleware"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, redisClient *redis.Client, cacheHealthChecker func() bool) *Injector {
	// Allocation policy: file-backed when configured, built-in otherwise.
	policy := valueobject.DefaultAllocationPolicy()
	if cfg.Planning.AllocationPolicyPath != "" {
		loaded, err := valueobject.LoadAllocationPolicy(cfg.Planning.AllocationPolicyPath)
		if err != nil {
			slog.Warn("Failed to load allocation policy, using defaults",
				"path", cfg.Planning.AllocationPolicyPath,
				"error", err,
			)
		} else {
			policy = loaded
		}
	}

	// Planning core
	engine := projection.NewEngine(policy)
	detector := planning.NewConflictDetector(planning.ConflictConfig{
		WindowYears:     cfg.Planning.ConflictWindowYears,
		HorizonYears:    cfg.Planning.ConflictHorizonYears,
		SurplusFraction: cfg.Planning.ConflictSurplusFraction,
	})
	allocator := planning.NewAllocator()
	buildPlanUseCase := planning.NewBuildPlanUseCase(engine, detector, allocator)

	// Integration adapters
	recommendationCache := rediscache.NewRedisRecommendationCache(redisClient)
	advisoryService := adapters.NewGeminiAdvisoryService(cfg.Advisory.GeminiAPIKey, cfg.Advisory.Model)
	profileProvider := adapters.NewCRMProfileProvider(cfg.CRM.BaseURL, cfg.CRM.APIKey, cfg.CRM.Timeout)

	// Recommendation use cases
	getRecommendationsUseCase := recommendation.NewGetRecommendationsUseCase(
		recommendationCache,
		advisoryService,
		buildPlanUseCase,
		cfg.Advisory.Timeout,
	)
	clearCacheUseCase := recommendation.NewClearCacheUseCase(recommendationCache)

	// Controllers
	healthController := controller.NewHealthController(cacheHealthChecker)
	planningController := controller.NewPlanningController(
		engine,
		detector,
		allocator,
		buildPlanUseCase,
		profileProvider,
	)
	recommendationController := controller.NewRecommendationController(
		getRecommendationsUseCase,
		clearCacheUseCase,
		profileProvider,
		cfg.Planning.CacheStaleWarnMinutes,
	)

	// Middleware
	recommendationLimiter := middleware.NewRateLimiterWithConfig(
		cfg.Planning.RateLimitAttempts,
		cfg.Planning.RateLimitWindow,
	)

	return &Injector{
		Config: cfg,
		Router: router.NewRouter(
			healthController,
			planningController,
			recommendationController,
			recommendationLimiter,
		),
	}
}
