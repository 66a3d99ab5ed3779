// Package valueobject contains domain value objects for the planning system.
package valueobject

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// ReturnAssumptions holds the expected annualized return per asset class,
// expressed as fractions (0.12 = 12% a year).
type ReturnAssumptions struct {
	Equity float64 `json:"equity"`
	Debt   float64 `json:"debt"`
	Gold   float64 `json:"gold"`
}

// AllocationBand maps one investment-horizon bucket to a per-risk-tolerance
// asset split. A goal falls into the first band whose MaxYears exceeds its
// horizon; the last band catches everything longer.
type AllocationBand struct {
	// MaxYears is the exclusive upper bound of the horizon bucket.
	// Use 0 on the last band to mean "no upper bound".
	MaxYears float64                                        `json:"max_years"`
	Splits   map[entity.RiskTolerance]entity.AssetAllocation `json:"splits"`
}

// AllocationPolicy is the tunable table behind the projection engine: which
// asset split a goal gets for a given horizon and risk tolerance, and what
// each asset class is expected to return. It is policy data, not a formula,
// and is loaded from configuration so advisors can tune it without touching
// the SIP math.
type AllocationPolicy struct {
	Returns ReturnAssumptions `json:"returns"`
	Bands   []AllocationBand  `json:"bands"`
}

// DefaultAllocationPolicy returns the built-in policy table: short horizons
// bias toward capital preservation regardless of stated risk tolerance, long
// horizons bias toward growth moderated by risk tolerance.
func DefaultAllocationPolicy() AllocationPolicy {
	return AllocationPolicy{
		Returns: ReturnAssumptions{Equity: 0.12, Debt: 0.07, Gold: 0.08},
		Bands: []AllocationBand{
			{
				MaxYears: 3,
				Splits: map[entity.RiskTolerance]entity.AssetAllocation{
					entity.RiskConservative: {EquityPercent: 10, DebtPercent: 80, GoldPercent: 10},
					entity.RiskModerate:     {EquityPercent: 20, DebtPercent: 70, GoldPercent: 10},
					entity.RiskAggressive:   {EquityPercent: 30, DebtPercent: 60, GoldPercent: 10},
				},
			},
			{
				MaxYears: 7,
				Splits: map[entity.RiskTolerance]entity.AssetAllocation{
					entity.RiskConservative: {EquityPercent: 30, DebtPercent: 60, GoldPercent: 10},
					entity.RiskModerate:     {EquityPercent: 45, DebtPercent: 45, GoldPercent: 10},
					entity.RiskAggressive:   {EquityPercent: 60, DebtPercent: 30, GoldPercent: 10},
				},
			},
			{
				MaxYears: 0,
				Splits: map[entity.RiskTolerance]entity.AssetAllocation{
					entity.RiskConservative: {EquityPercent: 45, DebtPercent: 45, GoldPercent: 10},
					entity.RiskModerate:     {EquityPercent: 60, DebtPercent: 30, GoldPercent: 10},
					entity.RiskAggressive:   {EquityPercent: 75, DebtPercent: 15, GoldPercent: 10},
				},
			},
		},
	}
}

// LoadAllocationPolicy reads a policy table from a JSON file and validates it.
func LoadAllocationPolicy(path string) (AllocationPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AllocationPolicy{}, fmt.Errorf("failed to read allocation policy file: %w", err)
	}

	var policy AllocationPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return AllocationPolicy{}, fmt.Errorf("failed to parse allocation policy file: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return AllocationPolicy{}, fmt.Errorf("invalid allocation policy in %s: %w", path, err)
	}

	return policy, nil
}

// Validate checks the structural invariants of the policy table.
func (p AllocationPolicy) Validate() error {
	if len(p.Bands) == 0 {
		return fmt.Errorf("policy has no horizon bands")
	}

	for i, band := range p.Bands {
		last := i == len(p.Bands)-1
		if !last && band.MaxYears <= 0 {
			return fmt.Errorf("band %d: max_years must be positive on non-final bands", i)
		}
		if !last && i > 0 && band.MaxYears <= p.Bands[i-1].MaxYears {
			return fmt.Errorf("band %d: max_years must be strictly increasing", i)
		}

		for _, risk := range []entity.RiskTolerance{entity.RiskConservative, entity.RiskModerate, entity.RiskAggressive} {
			split, ok := band.Splits[risk]
			if !ok {
				return fmt.Errorf("band %d: missing split for risk tolerance %q", i, risk)
			}
			sum := split.EquityPercent + split.DebtPercent + split.GoldPercent
			if sum != 100 {
				return fmt.Errorf("band %d: split for %q sums to %d, want 100", i, risk, sum)
			}
		}
	}

	for name, r := range map[string]float64{"equity": p.Returns.Equity, "debt": p.Returns.Debt, "gold": p.Returns.Gold} {
		if r < 0 || r > 1 {
			return fmt.Errorf("return assumption for %s is %v, want a fraction in [0, 1]", name, r)
		}
	}

	return nil
}

// AllocationFor looks up the asset split for a horizon and risk tolerance.
// Horizons at or below zero use the shortest band (capital preservation).
func (p AllocationPolicy) AllocationFor(timeInYears float64, risk entity.RiskTolerance) entity.AssetAllocation {
	horizon := math.Max(timeInYears, 0)

	for i, band := range p.Bands {
		last := i == len(p.Bands)-1
		if last || horizon < band.MaxYears {
			return band.Splits[risk]
		}
	}

	// Unreachable for validated policies.
	return p.Bands[len(p.Bands)-1].Splits[risk]
}

// BlendedReturn computes the expected annual return of an asset split under
// the policy's return assumptions.
func (p AllocationPolicy) BlendedReturn(a entity.AssetAllocation) float64 {
	return (float64(a.EquityPercent)*p.Returns.Equity +
		float64(a.DebtPercent)*p.Returns.Debt +
		float64(a.GoldPercent)*p.Returns.Gold) / 100
}
