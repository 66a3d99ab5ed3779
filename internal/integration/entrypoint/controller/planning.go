// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/application/adapter"
	"github.com/richie-crm/planning-backend/internal/application/usecase/planning"
	"github.com/richie-crm/planning-backend/internal/application/usecase/projection"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/integration/entrypoint/dto"
)

// PlanningController handles the deterministic planning endpoints.
type PlanningController struct {
	engine    *projection.Engine
	detector  *planning.ConflictDetector
	allocator *planning.Allocator
	buildPlan *planning.BuildPlanUseCase
	profiles  adapter.ClientProfileProvider
	now       func() time.Time
}

// NewPlanningController creates a new planning controller instance.
func NewPlanningController(
	engine *projection.Engine,
	detector *planning.ConflictDetector,
	allocator *planning.Allocator,
	buildPlan *planning.BuildPlanUseCase,
	profiles adapter.ClientProfileProvider,
) *PlanningController {
	return &PlanningController{
		engine:    engine,
		detector:  detector,
		allocator: allocator,
		buildPlan: buildPlan,
		profiles:  profiles,
		now:       time.Now,
	}
}

// Project handles POST /planning/projection requests.
func (c *PlanningController) Project(ctx *gin.Context) {
	var req dto.ProjectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	var timeInYears float64
	switch {
	case req.TargetYear != nil:
		timeInYears = float64(*req.TargetYear - c.now().Year())
	case req.TimeInYears != nil:
		timeInYears = *req.TimeInYears
	default:
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Either target_year or time_in_years is required",
			Code:  string(domainerror.ErrCodeInvalidTargetYear),
		})
		return
	}

	result, err := c.engine.Project(projection.ProjectInput{
		TargetAmount:  req.TargetAmount,
		TimeInYears:   timeInYears,
		RiskTolerance: entity.RiskTolerance(req.RiskTolerance),
	})
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProjectionResponse(result))
}

// DetectConflicts handles POST /planning/conflicts requests.
func (c *PlanningController) DetectConflicts(ctx *gin.Context) {
	var req dto.ConflictsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	warnings := c.detector.Detect(dto.ToFundedGoals(req.Goals), req.AvailableSurplus)

	ctx.JSON(http.StatusOK, dto.ConflictsResponse{
		Conflicts: dto.ToConflictResponses(warnings),
	})
}

// Optimize handles POST /planning/allocation requests.
func (c *PlanningController) Optimize(ctx *gin.Context) {
	var req dto.AllocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	output, err := c.allocator.Optimize(dto.ToFundedGoals(req.Goals), req.AvailableSurplus)
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOptimizeResponse(output))
}

// BuildPlan handles POST /clients/:clientId/plan requests.
func (c *PlanningController) BuildPlan(ctx *gin.Context) {
	clientID, err := uuid.Parse(ctx.Param("clientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid client id"})
		return
	}

	var req dto.PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	profile, err := resolveProfile(ctx.Request.Context(), c.profiles, clientID, req.Profile)
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	output, err := c.buildPlan.Execute(ctx.Request.Context(), planning.BuildPlanInput{
		Profile: profile,
		Goals:   dto.ToGoals(req.Goals),
	})
	if err != nil {
		respondPlanningError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPlanResponse(output.Plan))
}

// resolveProfile picks the inline profile snapshot when the request carries
// one, otherwise fetches the profile from the CRM.
func resolveProfile(ctx context.Context, provider adapter.ClientProfileProvider, clientID uuid.UUID, inline *dto.ProfileRequest) (*entity.ClientProfile, error) {
	if inline != nil {
		profile := inline.ToProfile()
		profile.ClientID = clientID
		return profile, nil
	}

	return provider.FindByClientID(ctx, clientID)
}

// respondPlanningError maps domain errors onto HTTP status codes.
func respondPlanningError(ctx *gin.Context, err error) {
	var planningErr *domainerror.PlanningError
	if errors.As(err, &planningErr) {
		status := http.StatusBadRequest
		if errors.Is(err, domainerror.ErrClientNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: planningErr.Message,
			Code:  string(planningErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}
