package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

func TestEngine_Project(t *testing.T) {
	engine := NewEngine(valueobject.DefaultAllocationPolicy())

	t.Run("is deterministic for identical inputs", func(t *testing.T) {
		input := ProjectInput{TargetAmount: 500000, TimeInYears: 8, RiskTolerance: entity.RiskAggressive}

		first, err := engine.Project(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := engine.Project(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if *first != *second {
			t.Errorf("expected bit-identical results, got %+v and %+v", first, second)
		}
	})

	t.Run("funds due goals immediately", func(t *testing.T) {
		for _, years := range []float64{0, -1, -3} {
			result, err := engine.Project(ProjectInput{
				TargetAmount:  250000,
				TimeInYears:   years,
				RiskTolerance: entity.RiskModerate,
			})
			if err != nil {
				t.Fatalf("unexpected error for %v years: %v", years, err)
			}
			if !result.Immediate {
				t.Errorf("expected immediate flag for %v years", years)
			}
			if result.MonthlySIP != 250000 {
				t.Errorf("expected monthly SIP equal to target amount, got %v", result.MonthlySIP)
			}
		}
	})

	t.Run("ten year moderate SIP lands in the expected band", func(t *testing.T) {
		result, err := engine.Project(ProjectInput{
			TargetAmount:  1200000,
			TimeInYears:   10,
			RiskTolerance: entity.RiskModerate,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Must beat the zero-return value of 10,000/month and stay above
		// a high-growth value of 4,000/month.
		if result.MonthlySIP >= 10000 || result.MonthlySIP <= 4000 {
			t.Errorf("monthly SIP %v outside hard bounds (4000, 10000)", result.MonthlySIP)
		}
		if result.MonthlySIP < 5800 || result.MonthlySIP > 6200 {
			t.Errorf("monthly SIP %v outside expected band [5800, 6200]", result.MonthlySIP)
		}
		if result.Immediate {
			t.Error("ten year goal must not be flagged immediate")
		}
	})

	t.Run("short horizons bias toward capital preservation", func(t *testing.T) {
		short, err := engine.Project(ProjectInput{TargetAmount: 100000, TimeInYears: 2, RiskTolerance: entity.RiskAggressive})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		long, err := engine.Project(ProjectInput{TargetAmount: 100000, TimeInYears: 15, RiskTolerance: entity.RiskAggressive})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if short.Allocation.EquityPercent >= long.Allocation.EquityPercent {
			t.Errorf("expected short horizon equity %d%% below long horizon equity %d%%",
				short.Allocation.EquityPercent, long.Allocation.EquityPercent)
		}
	})

	t.Run("allocation percentages sum to 100", func(t *testing.T) {
		for _, risk := range []entity.RiskTolerance{entity.RiskConservative, entity.RiskModerate, entity.RiskAggressive} {
			for _, years := range []float64{1, 5, 12} {
				result, err := engine.Project(ProjectInput{TargetAmount: 100000, TimeInYears: years, RiskTolerance: risk})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				sum := result.Allocation.EquityPercent + result.Allocation.DebtPercent + result.Allocation.GoldPercent
				if sum != 100 {
					t.Errorf("allocation for (%v, %s) sums to %d", years, risk, sum)
				}
			}
		}
	})

	t.Run("rejects negative target amounts", func(t *testing.T) {
		_, err := engine.Project(ProjectInput{TargetAmount: -1, TimeInYears: 5, RiskTolerance: entity.RiskModerate})
		if !errors.Is(err, domainerror.ErrInvalidTargetAmount) {
			t.Errorf("expected ErrInvalidTargetAmount, got %v", err)
		}
	})

	t.Run("rejects unknown risk tolerance", func(t *testing.T) {
		_, err := engine.Project(ProjectInput{TargetAmount: 1000, TimeInYears: 5, RiskTolerance: "yolo"})
		if !errors.Is(err, domainerror.ErrInvalidRiskTolerance) {
			t.Errorf("expected ErrInvalidRiskTolerance, got %v", err)
		}
	})
}

func TestMonthlySIP_ZeroRateFallback(t *testing.T) {
	// With a zero annual return the annuity formula divides by zero; the
	// engine must fall back to plain linear division.
	sip := monthlySIP(120000, 10, 0)
	if math.Abs(sip-1000) > 1e-9 {
		t.Errorf("expected linear fallback of 1000/month, got %v", sip)
	}
}

func TestMonthlySIP_GrowthReducesContribution(t *testing.T) {
	flat := monthlySIP(1200000, 10, 0)
	grown := monthlySIP(1200000, 10, 0.101)

	if grown >= flat {
		t.Errorf("expected compounding to reduce the required SIP, got %v >= %v", grown, flat)
	}
}
