// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RiskTolerance represents a client's stated appetite for investment risk.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// IsValid reports whether the risk tolerance is one of the known ordinals.
func (r RiskTolerance) IsValid() bool {
	return r == RiskConservative || r == RiskModerate || r == RiskAggressive
}

// GoalPriority represents the funding priority of a goal.
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"
)

// IsValid reports whether the priority is one of the known ordinals.
func (p GoalPriority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Rank returns the funding order of the priority: lower ranks fund first.
func (p GoalPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Goal represents one savings objective a client is planning toward.
// ID, Title, TargetAmount, TargetYear and Priority are owned by the caller;
// the remaining fields are derived by the projection engine and must never
// be set by callers (they are excluded from cache fingerprints for that
// reason).
type Goal struct {
	ID           string
	Title        string
	TargetAmount float64
	TargetYear   int
	Priority     GoalPriority

	// Derived by the projection engine.
	TimeInYears     float64
	ExpectedReturn  float64
	AssetAllocation *AssetAllocation
	MonthlySIP      float64
	Immediate       bool
}

// YearsRemaining returns the whole years between now and the target year.
// The result may be zero or negative for due or overdue goals.
func (g *Goal) YearsRemaining(now time.Time) float64 {
	return float64(g.TargetYear - now.Year())
}

// AssetAllocation is a bucketed percentage split across asset classes.
// The three percentages always sum to 100.
type AssetAllocation struct {
	EquityPercent int `json:"equity_percent"`
	DebtPercent   int `json:"debt_percent"`
	GoldPercent   int `json:"gold_percent"`
}

// ClientProfile holds the household inputs needed for funding math.
// The planning core treats it as an immutable snapshot per invocation.
type ClientProfile struct {
	ClientID             uuid.UUID
	RiskTolerance        RiskTolerance
	TotalMonthlyIncome   float64
	TotalMonthlyExpenses float64
	MonthlyEMI           float64
}

// MonthlySurplus returns the cash available for goal funding each month,
// floored at zero.
func (p *ClientProfile) MonthlySurplus() float64 {
	surplus := p.TotalMonthlyIncome - p.TotalMonthlyExpenses - p.MonthlyEMI
	if surplus < 0 {
		return 0
	}
	return surplus
}
