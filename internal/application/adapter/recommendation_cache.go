// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// RecommendationCache memoizes advisory output against a content fingerprint
// of its inputs. At most one live entry exists per client; storing a new
// fingerprint supersedes the old entry entirely.
//
// Lookup followed by Store is not atomic: two concurrent recomputations for
// the same fingerprint may both complete and the second Store wins. Callers
// needing at-most-one-in-flight recomputation must coordinate themselves.
type RecommendationCache interface {
	// Lookup returns the live entry for the client if its fingerprint
	// matches the given goals and profile. A miss returns (nil, nil).
	Lookup(ctx context.Context, goals []*entity.Goal, profile *entity.ClientProfile) (*entity.CacheEntry, error)

	// Store writes a new entry for the client, replacing any prior entry.
	// Storing for one client never disturbs another client's entry.
	Store(ctx context.Context, goals []*entity.Goal, profile *entity.ClientProfile, payload *entity.Recommendation) error

	// ForceRefresh deletes the client's current entry so the next Lookup
	// is guaranteed to miss.
	ForceRefresh(ctx context.Context, profile *entity.ClientProfile) error

	// ClearAll deletes every entry for every client and returns the number
	// of entries removed.
	ClearAll(ctx context.Context) (int64, error)
}
