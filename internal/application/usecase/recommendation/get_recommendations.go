// Package recommendation contains the cache-gated recommendation use cases.
package recommendation

import (
	"context"
	"log/slog"
	"time"

	"github.com/richie-crm/planning-backend/internal/application/adapter"
	"github.com/richie-crm/planning-backend/internal/application/usecase/planning"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

// GetRecommendationsInput represents the input for a recommendation request.
type GetRecommendationsInput struct {
	Profile *entity.ClientProfile
	Goals   []*entity.Goal

	// ForceRefresh deletes the client's cache entry before computing, so
	// this request always recomputes and re-fetches.
	ForceRefresh bool
}

// GetRecommendationsOutput represents the outcome of a recommendation request.
//
// AdvisoryError is data, not a failure of the request: when the external
// advisory source is down the deterministic plan is still returned and the
// caller surfaces a retryable "recommendations unavailable" state.
type GetRecommendationsOutput struct {
	Recommendation *entity.Recommendation
	Fingerprint    string
	CacheHit       bool
	AgeMinutes     float64
	AdvisoryError  *domainerror.RecommendationError
}

// GetRecommendationsUseCase serves recommendations for a client, memoizing
// them against a content fingerprint of the goal set and profile so that
// unchanged inputs never trigger a recomputation or an upstream fetch.
//
// Lookup then store is not atomic: two concurrent requests for the same
// fingerprint may both compute, and the second store wins.
type GetRecommendationsUseCase struct {
	cache           adapter.RecommendationCache
	advisory        adapter.AdvisoryService
	planner         *planning.BuildPlanUseCase
	advisoryTimeout time.Duration
	now             func() time.Time
}

// NewGetRecommendationsUseCase creates a new GetRecommendationsUseCase instance.
func NewGetRecommendationsUseCase(
	cache adapter.RecommendationCache,
	advisory adapter.AdvisoryService,
	planner *planning.BuildPlanUseCase,
	advisoryTimeout time.Duration,
) *GetRecommendationsUseCase {
	return &GetRecommendationsUseCase{
		cache:           cache,
		advisory:        advisory,
		planner:         planner,
		advisoryTimeout: advisoryTimeout,
		now:             time.Now,
	}
}

// Execute performs the recommendation flow: cache lookup, and on a miss the
// deterministic planning pipeline plus the external advisory fetch.
func (uc *GetRecommendationsUseCase) Execute(ctx context.Context, input GetRecommendationsInput) (*GetRecommendationsOutput, error) {
	if input.ForceRefresh {
		if err := uc.cache.ForceRefresh(ctx, input.Profile); err != nil {
			// A failed delete only risks serving one more stale entry.
			slog.Warn("cache force-refresh failed", "client_id", input.Profile.ClientID, "error", err)
		}
	} else {
		entry, err := uc.cache.Lookup(ctx, input.Goals, input.Profile)
		if err != nil {
			// Storage failure on lookup is treated as a miss.
			slog.Warn("cache lookup failed", "client_id", input.Profile.ClientID, "error", err)
		}
		if entry != nil {
			return &GetRecommendationsOutput{
				Recommendation: entry.Payload,
				Fingerprint:    entry.Fingerprint,
				CacheHit:       true,
				AgeMinutes:     entry.AgeMinutes(uc.now()),
			}, nil
		}
	}

	planOutput, err := uc.planner.Execute(ctx, planning.BuildPlanInput{
		Profile: input.Profile,
		Goals:   input.Goals,
	})
	if err != nil {
		return nil, err
	}

	recommendation := &entity.Recommendation{Plan: planOutput.Plan}
	output := &GetRecommendationsOutput{
		Recommendation: recommendation,
		Fingerprint:    valueobject.Fingerprint(input.Goals, input.Profile),
	}

	if !uc.advisory.IsAvailable() {
		output.AdvisoryError = domainerror.NewRecommendationError(
			domainerror.ErrCodeAdvisoryNotConfigured,
			"advisory source is not configured",
			false,
			domainerror.ErrAdvisoryNotConfigured,
		)
	} else {
		adviseCtx, cancel := context.WithTimeout(ctx, uc.advisoryTimeout)
		report, adviseErr := uc.advisory.Advise(adviseCtx, planOutput.Plan, input.Profile)
		cancel()

		if adviseErr != nil {
			// The deterministic plan still stands, but nothing is cached
			// for this attempt: a failed fetch must never leave an entry.
			slog.Warn("advisory source failed",
				"client_id", input.Profile.ClientID,
				"error", adviseErr,
			)
			output.AdvisoryError = domainerror.NewRecommendationError(
				domainerror.ErrCodeAdvisoryUnavailable,
				"advisory source unavailable",
				true,
				domainerror.ErrAdvisoryUnavailable,
			)
			return output, nil
		}
		recommendation.Advisory = report
	}

	if err := uc.cache.Store(ctx, input.Goals, input.Profile, recommendation); err != nil {
		// The recommendation is still good; the next request recomputes.
		slog.Warn("cache store failed", "client_id", input.Profile.ClientID, "error", err)
	}

	return output, nil
}
