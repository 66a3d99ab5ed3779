// Package planning contains the timeline conflict detector, the multi-goal
// allocator, and the use case that assembles a full plan for one client.
package planning

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// ConflictConfig tunes the timeline conflict detector. The defaults are
// starting points for advisors, not hard business requirements.
type ConflictConfig struct {
	// WindowYears is how close together two target years must be to count
	// as the same funding cluster.
	WindowYears int

	// HorizonYears bounds how far from now a goal can be and still be
	// considered near-term.
	HorizonYears int

	// SurplusFraction is the share of available surplus a cluster's
	// combined SIP must exceed before a warning is raised.
	SurplusFraction float64
}

// DefaultConflictConfig returns the default detector tuning.
func DefaultConflictConfig() ConflictConfig {
	return ConflictConfig{
		WindowYears:     2,
		HorizonYears:    5,
		SurplusFraction: 1.0,
	}
}

// ConflictDetector scans a goal set for target-year clustering that the
// available surplus cannot fund. It is advisory only: it never mutates goals
// and never blocks allocation.
type ConflictDetector struct {
	cfg ConflictConfig
	now func() time.Time
}

// NewConflictDetector creates a detector with the given tuning.
func NewConflictDetector(cfg ConflictConfig) *ConflictDetector {
	return &ConflictDetector{cfg: cfg, now: time.Now}
}

// NewConflictDetectorAt creates a detector with an injected clock.
func NewConflictDetectorAt(cfg ConflictConfig, now func() time.Time) *ConflictDetector {
	return &ConflictDetector{cfg: cfg, now: now}
}

// Detect returns one warning per near-term cluster whose combined monthly
// requirement exceeds the configured fraction of availableSurplus. A single
// goal whose own SIP exceeds the surplus is reported as a one-goal
// self-conflict, since the allocator will necessarily underfund it.
//
// Goals must already carry their MonthlySIP (the projection engine runs
// first); this component receives the surplus as a parameter and knows
// nothing about income or expenses.
func (d *ConflictDetector) Detect(goals []*entity.Goal, availableSurplus float64) []entity.ConflictWarning {
	currentYear := d.now().Year()

	nearTerm := make([]*entity.Goal, 0, len(goals))
	for _, g := range goals {
		if g.TargetYear-currentYear <= d.cfg.HorizonYears {
			nearTerm = append(nearTerm, g)
		}
	}
	if len(nearTerm) == 0 {
		return nil
	}

	sort.Slice(nearTerm, func(i, j int) bool {
		if nearTerm[i].TargetYear != nearTerm[j].TargetYear {
			return nearTerm[i].TargetYear < nearTerm[j].TargetYear
		}
		return nearTerm[i].ID < nearTerm[j].ID
	})

	var warnings []entity.ConflictWarning
	cluster := []*entity.Goal{nearTerm[0]}

	flush := func() {
		if w := d.evaluate(cluster, availableSurplus); w != nil {
			warnings = append(warnings, *w)
		}
	}

	for _, g := range nearTerm[1:] {
		if g.TargetYear-cluster[0].TargetYear > d.cfg.WindowYears {
			flush()
			cluster = []*entity.Goal{g}
			continue
		}
		cluster = append(cluster, g)
	}
	flush()

	return warnings
}

// evaluate checks one cluster against the surplus and builds its warning.
func (d *ConflictDetector) evaluate(cluster []*entity.Goal, availableSurplus float64) *entity.ConflictWarning {
	combined := decimal.Zero
	ids := make([]string, 0, len(cluster))
	for _, g := range cluster {
		combined = combined.Add(decimal.NewFromFloat(g.MonthlySIP))
		ids = append(ids, g.ID)
	}

	threshold := decimal.NewFromFloat(availableSurplus * d.cfg.SurplusFraction)
	if combined.LessThanOrEqual(threshold) {
		return nil
	}

	shortfall := combined.Sub(decimal.NewFromFloat(availableSurplus))
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}

	sort.Strings(ids)
	return &entity.ConflictWarning{
		GoalIDs:         ids,
		CombinedMonthly: combined.InexactFloat64(),
		Shortfall:       shortfall.InexactFloat64(),
	}
}
