package dto

import (
	"time"

	"github.com/richie-crm/planning-backend/internal/application/usecase/planning"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// ProjectionRequest represents the request body for a single-goal projection.
// Either target_year or time_in_years must be supplied; target_year wins
// when both are present.
type ProjectionRequest struct {
	TargetAmount  float64  `json:"target_amount" binding:"gte=0"`
	TargetYear    *int     `json:"target_year,omitempty"`
	TimeInYears   *float64 `json:"time_in_years,omitempty"`
	RiskTolerance string   `json:"risk_tolerance" binding:"required,oneof=conservative moderate aggressive"`
}

// GoalRequest represents one caller-owned goal in planning requests.
type GoalRequest struct {
	ID           string  `json:"id" binding:"required"`
	Title        string  `json:"title"`
	TargetAmount float64 `json:"target_amount" binding:"gte=0"`
	TargetYear   int     `json:"target_year" binding:"required,gt=0"`
	Priority     string  `json:"priority" binding:"required,oneof=high medium low"`
}

// FundedGoalRequest represents a goal that already carries its computed SIP,
// for the standalone conflict and allocation endpoints.
type FundedGoalRequest struct {
	ID         string  `json:"id" binding:"required"`
	TargetYear int     `json:"target_year" binding:"required,gt=0"`
	Priority   string  `json:"priority" binding:"required,oneof=high medium low"`
	MonthlySIP float64 `json:"monthly_sip" binding:"gte=0"`
}

// ConflictsRequest represents the request body for conflict detection.
type ConflictsRequest struct {
	Goals            []FundedGoalRequest `json:"goals" binding:"required,min=1,dive"`
	AvailableSurplus float64             `json:"available_surplus" binding:"gte=0"`
}

// AllocationRequest represents the request body for surplus allocation.
type AllocationRequest struct {
	Goals            []FundedGoalRequest `json:"goals" binding:"required,min=1,dive"`
	AvailableSurplus float64             `json:"available_surplus" binding:"gte=0"`
}

// ProfileRequest is an inline client profile snapshot. When present it
// bypasses the CRM profile lookup.
type ProfileRequest struct {
	RiskTolerance        string  `json:"risk_tolerance" binding:"required,oneof=conservative moderate aggressive"`
	TotalMonthlyIncome   float64 `json:"total_monthly_income" binding:"gte=0"`
	TotalMonthlyExpenses float64 `json:"total_monthly_expenses" binding:"gte=0"`
	MonthlyEMI           float64 `json:"monthly_emi" binding:"gte=0"`
}

// PlanRequest represents the request body for a full plan build.
type PlanRequest struct {
	Goals   []GoalRequest   `json:"goals" binding:"required,min=1,dive"`
	Profile *ProfileRequest `json:"profile,omitempty"`
}

// AllocationResponse represents an asset split in API responses.
type AllocationResponse struct {
	EquityPercent int `json:"equity_percent"`
	DebtPercent   int `json:"debt_percent"`
	GoldPercent   int `json:"gold_percent"`
}

// ProjectionResponse represents a single-goal projection result.
type ProjectionResponse struct {
	ExpectedReturn float64            `json:"expected_return"`
	Allocation     AllocationResponse `json:"allocation"`
	MonthlySIP     float64            `json:"monthly_sip"`
	Immediate      bool               `json:"immediate"`
}

// GoalResponse represents a goal with its derived planning fields.
type GoalResponse struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	TargetAmount   float64             `json:"target_amount"`
	TargetYear     int                 `json:"target_year"`
	Priority       string              `json:"priority"`
	TimeInYears    float64             `json:"time_in_years"`
	ExpectedReturn float64             `json:"expected_return"`
	Allocation     *AllocationResponse `json:"allocation,omitempty"`
	MonthlySIP     float64             `json:"monthly_sip"`
	Immediate      bool                `json:"immediate"`
}

// ConflictWarningResponse represents one timeline conflict.
type ConflictWarningResponse struct {
	GoalIDs         []string `json:"goal_ids"`
	CombinedMonthly float64  `json:"combined_monthly"`
	Shortfall       float64  `json:"shortfall"`
}

// AllocationResultResponse represents one goal's funding decision.
type AllocationResultResponse struct {
	GoalID       string  `json:"goal_id"`
	FundedAmount float64 `json:"funded_amount"`
	FundingRatio float64 `json:"funding_ratio"`
	Shortfall    float64 `json:"shortfall"`
}

// ConflictsResponse represents the conflict detector's output.
type ConflictsResponse struct {
	Conflicts []ConflictWarningResponse `json:"conflicts"`
}

// OptimizeResponse represents the allocator's output.
type OptimizeResponse struct {
	Results  []AllocationResultResponse `json:"results"`
	Feasible bool                       `json:"feasible"`
}

// PlanResponse represents a full plan for one client.
type PlanResponse struct {
	ClientID         string                     `json:"client_id"`
	Goals            []GoalResponse             `json:"goals"`
	Allocations      []AllocationResultResponse `json:"allocations"`
	Conflicts        []ConflictWarningResponse  `json:"conflicts"`
	Feasible         bool                       `json:"feasible"`
	AvailableSurplus float64                    `json:"available_surplus"`
	TotalMonthlySIP  float64                    `json:"total_monthly_sip"`
	TotalFunded      float64                    `json:"total_funded"`
	TotalShortfall   float64                    `json:"total_shortfall"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// ToGoal converts a goal request into the domain entity.
func (r GoalRequest) ToGoal() *entity.Goal {
	return &entity.Goal{
		ID:           r.ID,
		Title:        r.Title,
		TargetAmount: r.TargetAmount,
		TargetYear:   r.TargetYear,
		Priority:     entity.GoalPriority(r.Priority),
	}
}

// ToGoals converts a slice of goal requests into domain entities.
func ToGoals(reqs []GoalRequest) []*entity.Goal {
	goals := make([]*entity.Goal, 0, len(reqs))
	for _, r := range reqs {
		goals = append(goals, r.ToGoal())
	}
	return goals
}

// ToFundedGoals converts funded-goal requests into domain entities carrying
// their precomputed SIPs.
func ToFundedGoals(reqs []FundedGoalRequest) []*entity.Goal {
	goals := make([]*entity.Goal, 0, len(reqs))
	for _, r := range reqs {
		goals = append(goals, &entity.Goal{
			ID:         r.ID,
			TargetYear: r.TargetYear,
			Priority:   entity.GoalPriority(r.Priority),
			MonthlySIP: r.MonthlySIP,
		})
	}
	return goals
}

// ToProfile converts an inline profile request into the domain entity.
func (r ProfileRequest) ToProfile() *entity.ClientProfile {
	return &entity.ClientProfile{
		RiskTolerance:        entity.RiskTolerance(r.RiskTolerance),
		TotalMonthlyIncome:   r.TotalMonthlyIncome,
		TotalMonthlyExpenses: r.TotalMonthlyExpenses,
		MonthlyEMI:           r.MonthlyEMI,
	}
}

// ToProjectionResponse converts a projection result into its response form.
func ToProjectionResponse(result *entity.ProjectionResult) ProjectionResponse {
	return ProjectionResponse{
		ExpectedReturn: result.ExpectedReturn,
		Allocation:     toAllocationResponse(result.Allocation),
		MonthlySIP:     result.MonthlySIP,
		Immediate:      result.Immediate,
	}
}

// ToConflictResponses converts conflict warnings into their response form.
func ToConflictResponses(warnings []entity.ConflictWarning) []ConflictWarningResponse {
	responses := make([]ConflictWarningResponse, 0, len(warnings))
	for _, w := range warnings {
		responses = append(responses, ConflictWarningResponse{
			GoalIDs:         w.GoalIDs,
			CombinedMonthly: w.CombinedMonthly,
			Shortfall:       w.Shortfall,
		})
	}
	return responses
}

// ToOptimizeResponse converts the allocator output into its response form.
func ToOptimizeResponse(output *planning.OptimizeOutput) OptimizeResponse {
	results := make([]AllocationResultResponse, 0, len(output.Results))
	for _, r := range output.Results {
		results = append(results, toAllocationResultResponse(r))
	}
	return OptimizeResponse{Results: results, Feasible: output.Feasible}
}

// ToPlanResponse converts a plan into its response form.
func ToPlanResponse(plan *entity.Plan) PlanResponse {
	goals := make([]GoalResponse, 0, len(plan.Goals))
	for _, g := range plan.Goals {
		goals = append(goals, toGoalResponse(g))
	}

	allocations := make([]AllocationResultResponse, 0, len(plan.Allocations))
	for _, r := range plan.Allocations {
		allocations = append(allocations, toAllocationResultResponse(r))
	}

	return PlanResponse{
		ClientID:         plan.ClientID.String(),
		Goals:            goals,
		Allocations:      allocations,
		Conflicts:        ToConflictResponses(plan.Conflicts),
		Feasible:         plan.Feasible,
		AvailableSurplus: plan.AvailableSurplus,
		TotalMonthlySIP:  plan.TotalMonthlySIP,
		TotalFunded:      plan.TotalFunded,
		TotalShortfall:   plan.TotalShortfall,
		GeneratedAt:      plan.GeneratedAt,
	}
}

func toGoalResponse(g *entity.Goal) GoalResponse {
	resp := GoalResponse{
		ID:             g.ID,
		Title:          g.Title,
		TargetAmount:   g.TargetAmount,
		TargetYear:     g.TargetYear,
		Priority:       string(g.Priority),
		TimeInYears:    g.TimeInYears,
		ExpectedReturn: g.ExpectedReturn,
		MonthlySIP:     g.MonthlySIP,
		Immediate:      g.Immediate,
	}
	if g.AssetAllocation != nil {
		allocation := toAllocationResponse(*g.AssetAllocation)
		resp.Allocation = &allocation
	}
	return resp
}

func toAllocationResponse(a entity.AssetAllocation) AllocationResponse {
	return AllocationResponse{
		EquityPercent: a.EquityPercent,
		DebtPercent:   a.DebtPercent,
		GoldPercent:   a.GoldPercent,
	}
}

func toAllocationResultResponse(r entity.AllocationResult) AllocationResultResponse {
	return AllocationResultResponse{
		GoalID:       r.GoalID,
		FundedAmount: r.FundedAmount,
		FundingRatio: r.FundingRatio,
		Shortfall:    r.Shortfall,
	}
}
