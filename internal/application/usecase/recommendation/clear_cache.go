package recommendation

import (
	"context"
	"fmt"

	"github.com/richie-crm/planning-backend/internal/application/adapter"
)

// ClearCacheOutput reports how many entries a total clear removed.
type ClearCacheOutput struct {
	Removed int64
}

// ClearCacheUseCase wipes the recommendation cache for every client.
type ClearCacheUseCase struct {
	cache adapter.RecommendationCache
}

// NewClearCacheUseCase creates a new ClearCacheUseCase instance.
func NewClearCacheUseCase(cache adapter.RecommendationCache) *ClearCacheUseCase {
	return &ClearCacheUseCase{cache: cache}
}

// Execute removes every cached recommendation, unconditionally.
func (uc *ClearCacheUseCase) Execute(ctx context.Context) (*ClearCacheOutput, error) {
	removed, err := uc.cache.ClearAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear recommendation cache: %w", err)
	}

	return &ClearCacheOutput{Removed: removed}, nil
}
