// Package projection implements the goal projection engine: pure functions
// converting a goal's target amount, horizon and the client's risk tolerance
// into an expected return, an asset allocation and a required monthly SIP.
package projection

import (
	"math"
	"time"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

// zeroRateEpsilon is the threshold below which the monthly rate is treated
// as numerically zero and the annuity formula gives way to linear division.
const zeroRateEpsilon = 1e-9

// Engine computes goal projections against a fixed allocation policy.
// It has no side effects: identical inputs yield bit-identical outputs,
// which the recommendation cache's fingerprinting relies on.
type Engine struct {
	policy valueobject.AllocationPolicy
}

// NewEngine creates a projection engine for the given policy table.
func NewEngine(policy valueobject.AllocationPolicy) *Engine {
	return &Engine{policy: policy}
}

// ProjectInput represents the input for a single goal projection.
type ProjectInput struct {
	TargetAmount  float64
	TimeInYears   float64
	RiskTolerance entity.RiskTolerance
}

// Project computes the expected return, asset allocation and required
// monthly contribution for one goal.
//
// A non-positive horizon means the goal is already due: the full target
// amount must be funded immediately, so MonthlySIP equals TargetAmount and
// the result is flagged Immediate.
func (e *Engine) Project(input ProjectInput) (*entity.ProjectionResult, error) {
	if math.IsNaN(input.TargetAmount) || math.IsInf(input.TargetAmount, 0) || input.TargetAmount < 0 {
		return nil, domainerror.NewPlanningError(
			domainerror.ErrCodeInvalidTargetAmount,
			"target amount must be a non-negative number",
			domainerror.ErrInvalidTargetAmount,
		)
	}
	if !input.RiskTolerance.IsValid() {
		return nil, domainerror.NewPlanningError(
			domainerror.ErrCodeInvalidRiskTolerance,
			"risk tolerance must be 'conservative', 'moderate', or 'aggressive'",
			domainerror.ErrInvalidRiskTolerance,
		)
	}

	allocation := e.policy.AllocationFor(input.TimeInYears, input.RiskTolerance)
	expectedReturn := e.policy.BlendedReturn(allocation)

	if input.TimeInYears <= 0 {
		return &entity.ProjectionResult{
			ExpectedReturn: expectedReturn,
			Allocation:     allocation,
			MonthlySIP:     input.TargetAmount,
			Immediate:      true,
		}, nil
	}

	return &entity.ProjectionResult{
		ExpectedReturn: expectedReturn,
		Allocation:     allocation,
		MonthlySIP:     monthlySIP(input.TargetAmount, input.TimeInYears, expectedReturn),
	}, nil
}

// ProjectGoal runs Project for a goal relative to now and writes the derived
// fields back onto it. The caller-owned fields are never touched.
func (e *Engine) ProjectGoal(goal *entity.Goal, risk entity.RiskTolerance, now time.Time) error {
	timeInYears := goal.YearsRemaining(now)

	result, err := e.Project(ProjectInput{
		TargetAmount:  goal.TargetAmount,
		TimeInYears:   timeInYears,
		RiskTolerance: risk,
	})
	if err != nil {
		return err
	}

	allocation := result.Allocation
	goal.TimeInYears = timeInYears
	goal.ExpectedReturn = result.ExpectedReturn
	goal.AssetAllocation = &allocation
	goal.MonthlySIP = result.MonthlySIP
	goal.Immediate = result.Immediate

	return nil
}

// monthlySIP inverts the future value of an annuity: the level monthly
// contribution that reaches targetAmount after timeInYears at the given
// annual return, compounded monthly.
func monthlySIP(targetAmount, timeInYears, annualReturn float64) float64 {
	months := timeInYears * 12
	monthlyRate := math.Pow(1+annualReturn, 1.0/12) - 1

	if math.Abs(monthlyRate) < zeroRateEpsilon {
		return targetAmount / months
	}

	factor := (math.Pow(1+monthlyRate, months) - 1) / monthlyRate
	return targetAmount / factor
}
