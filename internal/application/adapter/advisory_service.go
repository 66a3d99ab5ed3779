package adapter

import (
	"context"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// AdvisoryService is the external recommendation source consulted on a cache
// miss. The call may be slow; implementations must honor the context's
// deadline and cancellation. The returned report is stored opaquely by the
// cache; this core never interprets its contents.
type AdvisoryService interface {
	// IsAvailable reports whether the service is configured.
	IsAvailable() bool

	// Advise produces a qualitative recommendation for the client's plan.
	Advise(ctx context.Context, plan *entity.Plan, profile *entity.ClientProfile) (*entity.AdvisoryReport, error)
}
