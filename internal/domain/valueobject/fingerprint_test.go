package valueobject

import (
	"testing"

	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

func fingerprintFixture() ([]*entity.Goal, *entity.ClientProfile) {
	goals := []*entity.Goal{
		{ID: "g1", Title: "Education", TargetAmount: 1200000, TargetYear: 2036, Priority: entity.PriorityHigh},
		{ID: "g2", Title: "Car", TargetAmount: 600000, TargetYear: 2030, Priority: entity.PriorityLow},
	}
	profile := &entity.ClientProfile{
		ClientID:      uuid.MustParse("6e9f3f6a-9f4e-4ad1-a2a3-0a8f4a1e2b3c"),
		RiskTolerance: entity.RiskModerate,
	}
	return goals, profile
}

func TestFingerprint(t *testing.T) {
	t.Run("is stable for identical inputs", func(t *testing.T) {
		goals, profile := fingerprintFixture()
		if Fingerprint(goals, profile) != Fingerprint(goals, profile) {
			t.Error("expected identical fingerprints for identical inputs")
		}
	})

	t.Run("is independent of goal order", func(t *testing.T) {
		goals, profile := fingerprintFixture()
		reversed := []*entity.Goal{goals[1], goals[0]}

		if Fingerprint(goals, profile) != Fingerprint(reversed, profile) {
			t.Error("expected fingerprint to ignore goal ordering")
		}
	})

	t.Run("ignores engine-derived fields", func(t *testing.T) {
		goals, profile := fingerprintFixture()
		before := Fingerprint(goals, profile)

		goals[0].MonthlySIP = 5973.02
		goals[0].TimeInYears = 10
		goals[0].AssetAllocation = &entity.AssetAllocation{EquityPercent: 60, DebtPercent: 30, GoldPercent: 10}
		goals[0].Immediate = false

		if Fingerprint(goals, profile) != before {
			t.Error("derived fields must not feed back into the cache key")
		}
	})

	t.Run("changes when any tracked field changes", func(t *testing.T) {
		base, profile := fingerprintFixture()
		baseline := Fingerprint(base, profile)

		mutations := map[string]func(goals []*entity.Goal, p *entity.ClientProfile){
			"target amount": func(goals []*entity.Goal, _ *entity.ClientProfile) { goals[0].TargetAmount = 1300000 },
			"target year":   func(goals []*entity.Goal, _ *entity.ClientProfile) { goals[0].TargetYear = 2040 },
			"priority":      func(goals []*entity.Goal, _ *entity.ClientProfile) { goals[0].Priority = entity.PriorityLow },
			"title":         func(goals []*entity.Goal, _ *entity.ClientProfile) { goals[0].Title = "College" },
			"membership":    func(goals []*entity.Goal, _ *entity.ClientProfile) { goals[0].ID = "g3" },
			"client":        func(_ []*entity.Goal, p *entity.ClientProfile) { p.ClientID = uuid.New() },
		}

		for name, mutate := range mutations {
			goals, mutatedProfile := fingerprintFixture()
			mutate(goals, mutatedProfile)
			if Fingerprint(goals, mutatedProfile) == baseline {
				t.Errorf("changing %s did not change the fingerprint", name)
			}
		}
	})

	t.Run("changes when a goal is removed", func(t *testing.T) {
		goals, profile := fingerprintFixture()
		baseline := Fingerprint(goals, profile)

		if Fingerprint(goals[:1], profile) == baseline {
			t.Error("removing a goal did not change the fingerprint")
		}
	})
}
