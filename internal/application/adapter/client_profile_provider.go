package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// ClientProfileProvider supplies household financial inputs keyed by client
// identifier. The CRM owns profile data; this core only reads snapshots.
type ClientProfileProvider interface {
	// FindByClientID retrieves the profile for a client.
	FindByClientID(ctx context.Context, clientID uuid.UUID) (*entity.ClientProfile, error)
}
