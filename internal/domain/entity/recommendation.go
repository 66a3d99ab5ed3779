package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProjectionResult is the projection engine's output for a single goal.
type ProjectionResult struct {
	ExpectedReturn float64
	Allocation     AssetAllocation
	MonthlySIP     float64
	Immediate      bool
}

// AllocationResult is the allocator's per-goal funding decision.
type AllocationResult struct {
	GoalID       string
	FundedAmount float64
	FundingRatio float64
	Shortfall    float64
}

// ConflictWarning flags goals whose combined near-term funding requirement
// cannot be met by the available surplus. Advisory only.
type ConflictWarning struct {
	GoalIDs         []string
	CombinedMonthly float64
	Shortfall       float64
}

// Plan is the deterministic output of a full planning run for one client:
// per-goal projections, the greedy funding split, and timeline conflicts.
type Plan struct {
	ClientID         uuid.UUID
	Goals            []*Goal
	Allocations      []AllocationResult
	Conflicts        []ConflictWarning
	Feasible         bool
	AvailableSurplus float64
	TotalMonthlySIP  float64
	TotalFunded      float64
	TotalShortfall   float64
	GeneratedAt      time.Time
}

// AdvisoryReport is the payload returned by the external advisory source.
// The cache stores it opaquely and never interprets its contents.
type AdvisoryReport struct {
	DebtStrategy  string   `json:"debt_strategy"`
	Warnings      []string `json:"warnings"`
	Opportunities []string `json:"opportunities"`
}

// Recommendation bundles the deterministic plan with the advisory report.
// This is the unit the recommendation cache memoizes.
type Recommendation struct {
	Plan     *Plan           `json:"plan"`
	Advisory *AdvisoryReport `json:"advisory,omitempty"`
}

// CacheEntry is one memoized recommendation. At most one live entry exists
// per client; a new fingerprint supersedes, never merges with, an old one.
type CacheEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Payload     *Recommendation `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AgeMinutes returns the entry age in minutes at the given instant.
// Staleness is reported to callers, never enforced by the cache.
func (e *CacheEntry) AgeMinutes(now time.Time) float64 {
	return now.Sub(e.CreatedAt).Minutes()
}
