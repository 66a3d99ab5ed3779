package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/richie-crm/planning-backend/internal/application/usecase/planning"
	"github.com/richie-crm/planning-backend/internal/application/usecase/projection"
	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

// fakeCache is an in-memory RecommendationCache recording its calls.
type fakeCache struct {
	entries      map[uuid.UUID]*entity.CacheEntry
	storeCalls   int
	refreshCalls int
	lookupErr    error
	createdAt    time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:   make(map[uuid.UUID]*entity.CacheEntry),
		createdAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeCache) Lookup(_ context.Context, goals []*entity.Goal, profile *entity.ClientProfile) (*entity.CacheEntry, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	entry, ok := f.entries[profile.ClientID]
	if !ok || entry.Fingerprint != valueobject.Fingerprint(goals, profile) {
		return nil, nil
	}
	return entry, nil
}

func (f *fakeCache) Store(_ context.Context, goals []*entity.Goal, profile *entity.ClientProfile, payload *entity.Recommendation) error {
	f.storeCalls++
	f.entries[profile.ClientID] = &entity.CacheEntry{
		Fingerprint: valueobject.Fingerprint(goals, profile),
		Payload:     payload,
		CreatedAt:   f.createdAt,
	}
	return nil
}

func (f *fakeCache) ForceRefresh(_ context.Context, profile *entity.ClientProfile) error {
	f.refreshCalls++
	delete(f.entries, profile.ClientID)
	return nil
}

func (f *fakeCache) ClearAll(_ context.Context) (int64, error) {
	n := int64(len(f.entries))
	f.entries = make(map[uuid.UUID]*entity.CacheEntry)
	return n, nil
}

// fakeAdvisory is a canned AdvisoryService recording its calls.
type fakeAdvisory struct {
	report    *entity.AdvisoryReport
	err       error
	available bool
	calls     int
}

func (f *fakeAdvisory) IsAvailable() bool {
	return f.available
}

func (f *fakeAdvisory) Advise(_ context.Context, _ *entity.Plan, _ *entity.ClientProfile) (*entity.AdvisoryReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 1, 12, 30, 0, 0, time.UTC)
}

func newTestUseCase(cache *fakeCache, advisory *fakeAdvisory) *GetRecommendationsUseCase {
	planner := planning.NewBuildPlanUseCaseAt(
		projection.NewEngine(valueobject.DefaultAllocationPolicy()),
		planning.NewConflictDetectorAt(planning.DefaultConflictConfig(), fixedNow),
		planning.NewAllocator(),
		fixedNow,
	)
	uc := NewGetRecommendationsUseCase(cache, advisory, planner, time.Second)
	uc.now = fixedNow
	return uc
}

func recommendationFixture() GetRecommendationsInput {
	return GetRecommendationsInput{
		Profile: &entity.ClientProfile{
			ClientID:             uuid.New(),
			RiskTolerance:        entity.RiskModerate,
			TotalMonthlyIncome:   90000,
			TotalMonthlyExpenses: 50000,
			MonthlyEMI:           10000,
		},
		Goals: []*entity.Goal{
			{ID: "edu", Title: "Education", TargetAmount: 1200000, TargetYear: 2036, Priority: entity.PriorityHigh},
		},
	}
}

func TestGetRecommendationsUseCase_Execute(t *testing.T) {
	t.Run("computes, fetches and stores on a miss", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: true, report: &entity.AdvisoryReport{DebtStrategy: "prepay the EMI"}}
		uc := newTestUseCase(cache, advisory)

		output, err := uc.Execute(context.Background(), recommendationFixture())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.CacheHit {
			t.Error("first request must be a miss")
		}
		if output.Recommendation.Plan == nil {
			t.Fatal("expected a deterministic plan")
		}
		if output.Recommendation.Advisory == nil || output.Recommendation.Advisory.DebtStrategy != "prepay the EMI" {
			t.Errorf("expected advisory payload, got %+v", output.Recommendation.Advisory)
		}
		if advisory.calls != 1 {
			t.Errorf("expected one advisory call, got %d", advisory.calls)
		}
		if cache.storeCalls != 1 {
			t.Errorf("expected one store, got %d", cache.storeCalls)
		}
	})

	t.Run("serves the cached payload without recomputation", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: true, report: &entity.AdvisoryReport{DebtStrategy: "prepay the EMI"}}
		uc := newTestUseCase(cache, advisory)
		input := recommendationFixture()

		first, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !second.CacheHit {
			t.Error("second request must hit the cache")
		}
		if second.Fingerprint != first.Fingerprint {
			t.Error("fingerprint drifted between identical requests")
		}
		if second.Recommendation.Advisory.DebtStrategy != first.Recommendation.Advisory.DebtStrategy {
			t.Error("cached payload differs from the stored one")
		}
		if advisory.calls != 1 {
			t.Errorf("cache hit must not call the advisory source, got %d calls", advisory.calls)
		}
		if second.AgeMinutes != 30 {
			t.Errorf("expected age 30 minutes, got %v", second.AgeMinutes)
		}
	})

	t.Run("a changed goal set misses and recomputes", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: true, report: &entity.AdvisoryReport{}}
		uc := newTestUseCase(cache, advisory)
		input := recommendationFixture()

		if _, err := uc.Execute(context.Background(), input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		input.Goals[0].TargetAmount = 1500000

		output, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.CacheHit {
			t.Error("editing a tracked field must force a miss")
		}
		if advisory.calls != 2 {
			t.Errorf("expected a second advisory call, got %d", advisory.calls)
		}
	})

	t.Run("force refresh bypasses a fresh entry", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: true, report: &entity.AdvisoryReport{}}
		uc := newTestUseCase(cache, advisory)
		input := recommendationFixture()

		if _, err := uc.Execute(context.Background(), input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		input.ForceRefresh = true
		output, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.CacheHit {
			t.Error("force refresh must not serve the cache")
		}
		if cache.refreshCalls != 1 {
			t.Errorf("expected one refresh call, got %d", cache.refreshCalls)
		}
		if advisory.calls != 2 {
			t.Errorf("expected recomputation after refresh, got %d advisory calls", advisory.calls)
		}
	})

	t.Run("advisory failure returns the plan and writes nothing", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: true, err: errors.New("upstream timeout")}
		uc := newTestUseCase(cache, advisory)

		output, err := uc.Execute(context.Background(), recommendationFixture())
		if err != nil {
			t.Fatalf("upstream failure must not fail the request: %v", err)
		}

		if output.Recommendation.Plan == nil {
			t.Error("deterministic plan must survive an advisory failure")
		}
		if output.Recommendation.Advisory != nil {
			t.Error("no advisory payload expected on failure")
		}
		if output.AdvisoryError == nil || !output.AdvisoryError.Retryable {
			t.Errorf("expected a retryable advisory error, got %+v", output.AdvisoryError)
		}
		if !errors.Is(output.AdvisoryError, domainerror.ErrAdvisoryUnavailable) {
			t.Errorf("expected ErrAdvisoryUnavailable, got %v", output.AdvisoryError)
		}
		if cache.storeCalls != 0 {
			t.Errorf("a failed fetch must never leave a cache entry, got %d stores", cache.storeCalls)
		}
	})

	t.Run("unconfigured advisory still caches the deterministic plan", func(t *testing.T) {
		cache := newFakeCache()
		advisory := &fakeAdvisory{available: false}
		uc := newTestUseCase(cache, advisory)
		input := recommendationFixture()

		output, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.AdvisoryError == nil || output.AdvisoryError.Retryable {
			t.Errorf("expected a non-retryable not-configured error, got %+v", output.AdvisoryError)
		}
		if cache.storeCalls != 1 {
			t.Errorf("expected the plan-only payload to be cached, got %d stores", cache.storeCalls)
		}

		second, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !second.CacheHit {
			t.Error("expected the plan-only payload to be served from cache")
		}
	})

	t.Run("treats a failing cache as a miss", func(t *testing.T) {
		cache := newFakeCache()
		cache.lookupErr = errors.New("connection refused")
		advisory := &fakeAdvisory{available: true, report: &entity.AdvisoryReport{}}
		uc := newTestUseCase(cache, advisory)

		output, err := uc.Execute(context.Background(), recommendationFixture())
		if err != nil {
			t.Fatalf("a broken cache must not fail the request: %v", err)
		}
		if output.CacheHit {
			t.Error("a broken cache cannot produce a hit")
		}
		if output.Recommendation.Plan == nil {
			t.Error("expected the plan to be computed anyway")
		}
	})
}
