package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/application/adapter"
	"github.com/richie-crm/planning-backend/internal/application/usecase/recommendation"
	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/dto"
)

// RecommendationController handles the cache-gated recommendation endpoints.
type RecommendationController struct {
	getUseCase       *recommendation.GetRecommendationsUseCase
	clearUseCase     *recommendation.ClearCacheUseCase
	profiles         adapter.ClientProfileProvider
	staleWarnMinutes float64
}

// NewRecommendationController creates a new recommendation controller instance.
func NewRecommendationController(
	getUseCase *recommendation.GetRecommendationsUseCase,
	clearUseCase *recommendation.ClearCacheUseCase,
	profiles adapter.ClientProfileProvider,
	staleWarnMinutes float64,
) *RecommendationController {
	return &RecommendationController{
		getUseCase:       getUseCase,
		clearUseCase:     clearUseCase,
		profiles:         profiles,
		staleWarnMinutes: staleWarnMinutes,
	}
}

// Get handles POST /clients/:clientId/recommendations requests.
// The refresh=true query parameter forces recomputation by invalidating the
// client's cache entry first.
func (c *RecommendationController) Get(ctx *gin.Context) {
	clientID, err := uuid.Parse(ctx.Param("clientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid client id"})
		return
	}

	var req dto.RecommendationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	profile, err := resolveProfile(ctx.Request.Context(), c.profiles, clientID, req.Profile)
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), recommendation.GetRecommendationsInput{
		Profile:      profile,
		Goals:        dto.ToGoals(req.Goals),
		ForceRefresh: ctx.Query("refresh") == "true",
	})
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecommendationsResponse(output, c.staleWarnMinutes))
}

// ClearCache handles DELETE /cache requests.
func (c *RecommendationController) ClearCache(ctx *gin.Context) {
	output, err := c.clearUseCase.Execute(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to clear recommendation cache"})
		return
	}

	ctx.JSON(http.StatusOK, dto.ClearCacheResponse{Removed: output.Removed})
}
