package planning

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/application/usecase/projection"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

func newTestPlanner() *BuildPlanUseCase {
	return NewBuildPlanUseCaseAt(
		projection.NewEngine(valueobject.DefaultAllocationPolicy()),
		NewConflictDetectorAt(DefaultConflictConfig(), fixedNow),
		NewAllocator(),
		fixedNow,
	)
}

func testProfile() *entity.ClientProfile {
	return &entity.ClientProfile{
		ClientID:             uuid.New(),
		RiskTolerance:        entity.RiskModerate,
		TotalMonthlyIncome:   90000,
		TotalMonthlyExpenses: 50000,
		MonthlyEMI:           10000,
	}
}

func TestBuildPlanUseCase_Execute(t *testing.T) {
	planner := newTestPlanner()
	currentYear := fixedNow().Year()

	t.Run("derives projection fields on every goal", func(t *testing.T) {
		goals := []*entity.Goal{
			{ID: "edu", Title: "Education", TargetAmount: 1200000, TargetYear: currentYear + 10, Priority: entity.PriorityHigh},
			{ID: "car", Title: "Car", TargetAmount: 600000, TargetYear: currentYear + 4, Priority: entity.PriorityLow},
		}

		output, err := planner.Execute(context.Background(), BuildPlanInput{Profile: testProfile(), Goals: goals})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, g := range output.Plan.Goals {
			if g.MonthlySIP <= 0 {
				t.Errorf("goal %s missing derived SIP", g.ID)
			}
			if g.AssetAllocation == nil {
				t.Errorf("goal %s missing derived allocation", g.ID)
			}
			if g.TimeInYears != g.YearsRemaining(fixedNow()) {
				t.Errorf("goal %s has wrong horizon %v", g.ID, g.TimeInYears)
			}
		}
	})

	t.Run("totals reconcile with the allocation", func(t *testing.T) {
		goals := []*entity.Goal{
			{ID: "a", TargetAmount: 2000000, TargetYear: currentYear + 3, Priority: entity.PriorityHigh},
			{ID: "b", TargetAmount: 1500000, TargetYear: currentYear + 5, Priority: entity.PriorityMedium},
		}

		output, err := planner.Execute(context.Background(), BuildPlanInput{Profile: testProfile(), Goals: goals})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		plan := output.Plan

		if plan.AvailableSurplus != 30000 {
			t.Errorf("expected surplus 30000, got %v", plan.AvailableSurplus)
		}
		if math.Abs(plan.TotalFunded+plan.TotalShortfall-plan.TotalMonthlySIP) > 1e-6 {
			t.Errorf("funded %v + shortfall %v != required %v",
				plan.TotalFunded, plan.TotalShortfall, plan.TotalMonthlySIP)
		}
		if plan.Feasible != (plan.TotalShortfall == 0) {
			t.Errorf("feasible flag %v disagrees with shortfall %v", plan.Feasible, plan.TotalShortfall)
		}
	})

	t.Run("surfaces infeasibility as data, not an error", func(t *testing.T) {
		profile := testProfile()
		profile.TotalMonthlyExpenses = profile.TotalMonthlyIncome

		goals := []*entity.Goal{
			{ID: "big", TargetAmount: 5000000, TargetYear: currentYear + 2, Priority: entity.PriorityHigh},
		}

		output, err := planner.Execute(context.Background(), BuildPlanInput{Profile: profile, Goals: goals})
		if err != nil {
			t.Fatalf("expected infeasible plan to succeed, got %v", err)
		}
		if output.Plan.Feasible {
			t.Error("expected feasible=false with zero surplus")
		}
		if len(output.Plan.Conflicts) == 0 {
			t.Error("expected a self-conflict warning for the oversized goal")
		}
	})

	t.Run("rejects duplicate goal ids", func(t *testing.T) {
		goals := []*entity.Goal{
			{ID: "dup", TargetAmount: 1000, TargetYear: currentYear + 1, Priority: entity.PriorityHigh},
			{ID: "dup", TargetAmount: 2000, TargetYear: currentYear + 2, Priority: entity.PriorityLow},
		}

		_, err := planner.Execute(context.Background(), BuildPlanInput{Profile: testProfile(), Goals: goals})
		if !errors.Is(err, domainerror.ErrDuplicateGoalID) {
			t.Errorf("expected ErrDuplicateGoalID, got %v", err)
		}
	})

	t.Run("rejects goals without ids", func(t *testing.T) {
		goals := []*entity.Goal{
			{TargetAmount: 1000, TargetYear: currentYear + 1, Priority: entity.PriorityHigh},
		}

		_, err := planner.Execute(context.Background(), BuildPlanInput{Profile: testProfile(), Goals: goals})
		if !errors.Is(err, domainerror.ErrMissingGoalID) {
			t.Errorf("expected ErrMissingGoalID, got %v", err)
		}
	})
}
