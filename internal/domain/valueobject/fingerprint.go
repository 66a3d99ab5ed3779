package valueobject

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// fingerprintGoal is the canonical projection of a goal for fingerprinting.
// Only caller-owned fields participate: engine-derived fields (MonthlySIP,
// AssetAllocation, TimeInYears) are excluded so that a computed output can
// never feed back into the key that gates whether the engine runs.
type fingerprintGoal struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	TargetAmount float64             `json:"target_amount"`
	TargetYear   int                 `json:"target_year"`
	Priority     entity.GoalPriority `json:"priority"`
}

type fingerprintInput struct {
	ClientID string            `json:"client_id"`
	Goals    []fingerprintGoal `json:"goals"`
}

// Fingerprint computes a deterministic content hash of the recommendation
// inputs. Goals are sorted by id before serialization so the result is
// independent of the order the caller supplies them in. Any change to a
// tracked field, or to goal membership, changes the fingerprint.
func Fingerprint(goals []*entity.Goal, profile *entity.ClientProfile) string {
	input := fingerprintInput{
		ClientID: profile.ClientID.String(),
		Goals:    make([]fingerprintGoal, 0, len(goals)),
	}

	for _, g := range goals {
		input.Goals = append(input.Goals, fingerprintGoal{
			ID:           g.ID,
			Title:        g.Title,
			TargetAmount: g.TargetAmount,
			TargetYear:   g.TargetYear,
			Priority:     g.Priority,
		})
	}

	sort.Slice(input.Goals, func(i, j int) bool {
		return input.Goals[i].ID < input.Goals[j].ID
	})

	// Struct field order is fixed, so marshaling is deterministic.
	data, err := json.Marshal(input)
	if err != nil {
		// Marshaling plain structs of strings and numbers cannot fail.
		panic(err)
	}

	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
