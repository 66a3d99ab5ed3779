package planning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/richie-crm/planning-backend/internal/application/usecase/projection"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
)

// BuildPlanInput represents the input for assembling a full plan.
// The profile is treated as an immutable snapshot; goals are mutated in
// place to carry the engine's derived fields.
type BuildPlanInput struct {
	Profile *entity.ClientProfile
	Goals   []*entity.Goal
}

// BuildPlanOutput represents the output of plan assembly.
type BuildPlanOutput struct {
	Plan *entity.Plan
}

// BuildPlanUseCase runs the deterministic planning pipeline for one client:
// projection per goal, timeline conflict detection, and the greedy surplus
// allocation, combined into a Plan.
type BuildPlanUseCase struct {
	engine    *projection.Engine
	detector  *ConflictDetector
	allocator *Allocator
	now       func() time.Time
}

// NewBuildPlanUseCase creates a new BuildPlanUseCase instance.
func NewBuildPlanUseCase(engine *projection.Engine, detector *ConflictDetector, allocator *Allocator) *BuildPlanUseCase {
	return &BuildPlanUseCase{
		engine:    engine,
		detector:  detector,
		allocator: allocator,
		now:       time.Now,
	}
}

// NewBuildPlanUseCaseAt creates a BuildPlanUseCase with an injected clock.
func NewBuildPlanUseCaseAt(engine *projection.Engine, detector *ConflictDetector, allocator *Allocator, now func() time.Time) *BuildPlanUseCase {
	uc := NewBuildPlanUseCase(engine, detector, allocator)
	uc.now = now
	return uc
}

// Execute performs the plan assembly. The pipeline is pure computation and
// terminates in time proportional to the goal count; the context is accepted
// for interface symmetry with the other use cases but never blocks on it.
func (uc *BuildPlanUseCase) Execute(_ context.Context, input BuildPlanInput) (*BuildPlanOutput, error) {
	if err := validateGoals(input.Goals); err != nil {
		return nil, err
	}

	now := uc.now()
	for _, g := range input.Goals {
		if err := uc.engine.ProjectGoal(g, input.Profile.RiskTolerance, now); err != nil {
			return nil, err
		}
	}

	surplus := input.Profile.MonthlySurplus()
	conflicts := uc.detector.Detect(input.Goals, surplus)

	allocation, err := uc.allocator.Optimize(input.Goals, surplus)
	if err != nil {
		return nil, err
	}

	totalSIP := decimal.Zero
	for _, g := range input.Goals {
		totalSIP = totalSIP.Add(decimal.NewFromFloat(g.MonthlySIP))
	}
	totalFunded := decimal.Zero
	totalShortfall := decimal.Zero
	for _, r := range allocation.Results {
		totalFunded = totalFunded.Add(decimal.NewFromFloat(r.FundedAmount))
		totalShortfall = totalShortfall.Add(decimal.NewFromFloat(r.Shortfall))
	}

	return &BuildPlanOutput{
		Plan: &entity.Plan{
			ClientID:         input.Profile.ClientID,
			Goals:            input.Goals,
			Allocations:      allocation.Results,
			Conflicts:        conflicts,
			Feasible:         allocation.Feasible,
			AvailableSurplus: surplus,
			TotalMonthlySIP:  totalSIP.InexactFloat64(),
			TotalFunded:      totalFunded.InexactFloat64(),
			TotalShortfall:   totalShortfall.InexactFloat64(),
			GeneratedAt:      now,
		},
	}, nil
}

// validateGoals rejects genuinely malformed goal sets. Overdue years and
// zero amounts are legitimate planning inputs and pass through.
func validateGoals(goals []*entity.Goal) error {
	seen := make(map[string]struct{}, len(goals))

	for _, g := range goals {
		if g.ID == "" {
			return domainerror.NewPlanningError(
				domainerror.ErrCodeMissingGoalID,
				"every goal needs a stable id",
				domainerror.ErrMissingGoalID,
			)
		}
		if _, dup := seen[g.ID]; dup {
			return domainerror.NewPlanningError(
				domainerror.ErrCodeDuplicateGoalID,
				"goal id "+g.ID+" appears more than once",
				domainerror.ErrDuplicateGoalID,
			)
		}
		seen[g.ID] = struct{}{}

		if g.TargetYear <= 0 {
			return domainerror.NewPlanningError(
				domainerror.ErrCodeInvalidTargetYear,
				"goal "+g.ID+" has no usable target year",
				domainerror.ErrInvalidTargetYear,
			)
		}
		if !g.Priority.IsValid() {
			return domainerror.NewPlanningError(
				domainerror.ErrCodeInvalidPriority,
				"goal "+g.ID+" priority must be 'high', 'medium', or 'low'",
				domainerror.ErrInvalidPriority,
			)
		}
	}

	return nil
}
