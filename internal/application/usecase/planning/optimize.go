package planning

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
)

// Allocator splits a monthly surplus across a prioritized goal set.
//
// The policy is deliberately greedy: goals are funded in priority order
// (high before medium before low, ties broken by sooner target year), each
// fully funded before the next is considered. The first goal the remaining
// balance cannot cover is funded partially and everything after it gets
// zero. This favors a small number of fully-funded goals over many
// partially-funded ones; downstream shortfall messaging assumes exactly
// this behavior, so it must not be replaced with a proportional or
// solver-based split.
type Allocator struct{}

// NewAllocator creates a multi-goal allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// OptimizeOutput is the allocator's result: per-goal funding in the order
// goals were considered, and whether the surplus covers every goal in full.
type OptimizeOutput struct {
	Results  []entity.AllocationResult
	Feasible bool
}

// Optimize computes a feasible per-goal contribution schedule. Infeasibility
// is never an error: it is reported through Feasible=false and nonzero
// per-goal shortfalls.
func (a *Allocator) Optimize(goals []*entity.Goal, availableSurplus float64) (*OptimizeOutput, error) {
	if math.IsNaN(availableSurplus) || availableSurplus < 0 {
		return nil, domainerror.NewPlanningError(
			domainerror.ErrCodeInvalidSurplus,
			"available surplus must be a non-negative number",
			domainerror.ErrInvalidSurplus,
		)
	}

	ordered := make([]*entity.Goal, len(goals))
	copy(ordered, goals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		return ordered[i].TargetYear < ordered[j].TargetYear
	})

	balance := decimal.NewFromFloat(availableSurplus)
	feasible := true
	results := make([]entity.AllocationResult, 0, len(ordered))

	for _, g := range ordered {
		required := decimal.NewFromFloat(g.MonthlySIP)

		funded := required
		if balance.LessThan(required) {
			funded = balance
			feasible = false
		}
		balance = balance.Sub(funded)

		ratio := decimal.NewFromInt(1)
		if required.IsPositive() {
			ratio = funded.Div(required)
		}

		results = append(results, entity.AllocationResult{
			GoalID:       g.ID,
			FundedAmount: funded.InexactFloat64(),
			FundingRatio: ratio.InexactFloat64(),
			Shortfall:    required.Sub(funded).InexactFloat64(),
		})
	}

	return &OptimizeOutput{Results: results, Feasible: feasible}, nil
}
