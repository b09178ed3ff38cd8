package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/petfit-backend/internal/data/repos"
	"github.com/yungbote/petfit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/ranking"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type fakeRunStore struct {
	mu        sync.Mutex
	runs      []*types.RecommendationRun
	items     map[uuid.UUID][]*types.RecommendationRunItem
	createErr error
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{items: map[uuid.UUID][]*types.RecommendationRunItem{}}
}

func (f *fakeRunStore) CreateRun(_ context.Context, run *types.RecommendationRun, items []*types.RecommendationRunItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	for _, it := range items {
		it.RunID = run.ID
	}
	f.runs = append(f.runs, run)
	f.items[run.ID] = items
	return nil
}

func (f *fakeRunStore) LatestRun(_ context.Context, petID uuid.UUID) (*types.RecommendationRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.RecommendationRun
	for _, r := range f.runs {
		if r.PetID == petID && (latest == nil || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	return latest, nil
}

func (f *fakeRunStore) ItemsForRun(_ context.Context, runID uuid.UUID, _ int) ([]*types.RecommendationRunItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[runID], nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingStore) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) Delete(context.Context, ...string) (int64, error) {
	return 0, errors.New("connection refused")
}
func (failingStore) ScanByPattern(context.Context, string) ([]string, error) {
	return nil, errors.New("connection refused")
}

func sampleResult(petID uuid.UUID, at time.Time) *Result {
	price := 21000.0
	expl := "A gentle salmon recipe."
	return &Result{
		PetID:    petID,
		Strategy: "rule_v1:BALANCED",
		Items: []Item{
			{
				ProductID: uuid.New(), Rank: 1, BrandName: "Acme", ProductName: "Salmon",
				Total: 72.5, Safety: 80, Fitness: 61.25, Reasons: []string{"no harmful additives"},
				Breakdown: scoring.Breakdown{Safety: 80, Fitness: 61.25, Allergen: 50}, PricePerKg: &price,
				Merchant: "COUPANG", Explanation: &expl,
			},
			{
				ProductID: uuid.New(), Rank: 2, BrandName: "Acme", ProductName: "Duck",
				Total: 60, Safety: 70, Fitness: 45, Reasons: []string{"matches life stage"},
			},
		},
		Stats:      ranking.FilterStats{Total: 5, Passed: 2, SafetyFiltered: 3},
		ComputedAt: at,
	}
}

func sameResult(t *testing.T, want, got *Result) {
	t.Helper()
	if got == nil {
		t.Fatalf("want result got=nil")
	}
	if got.PetID != want.PetID || got.Strategy != want.Strategy || !got.ComputedAt.Equal(want.ComputedAt) {
		t.Fatalf("header mismatch: want=%+v got=%+v", want, got)
	}
	if got.Stats != want.Stats || got.Message != want.Message {
		t.Fatalf("stats mismatch: want=%+v got=%+v", want.Stats, got.Stats)
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("items: want=%d got=%d", len(want.Items), len(got.Items))
	}
	for i := range want.Items {
		w, g := want.Items[i], got.Items[i]
		if w.ProductID != g.ProductID || w.Total != g.Total || w.Safety != g.Safety || w.Fitness != g.Fitness || w.ProductName != g.ProductName {
			t.Fatalf("item %d: want=%+v got=%+v", i, w, g)
		}
		if len(w.Reasons) != len(g.Reasons) || w.Breakdown != g.Breakdown {
			t.Fatalf("item %d detail: want=%+v got=%+v", i, w, g)
		}
		if (w.Explanation == nil) != (g.Explanation == nil) || (w.PricePerKg == nil) != (g.PricePerKg == nil) {
			t.Fatalf("item %d optional fields differ", i)
		}
	}
}

func newTestCache(store Store, runs RunStore) *RecommendationCache {
	return New(logger.Nop(), store, runs, Config{})
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(NewMemoryStore(), newFakeRunStore())
	petID := uuid.New()
	want := sampleResult(petID, time.Now().UTC().Truncate(time.Millisecond))

	c.Put(ctx, want, 0)
	if want.RunID == uuid.Nil {
		t.Fatalf("put should record the run id")
	}
	got, src := c.Get(ctx, petID)
	if src != SourceEphemeral {
		t.Fatalf("want=ephemeral got=%s", src)
	}
	sameResult(t, want, got)

	c.Invalidate(ctx, petID)
	if got, src := c.Get(ctx, petID); got != nil {
		t.Fatalf("invalidated pet must miss both tiers, got source=%s", src)
	}
}

func TestDurableTierFillsEphemeral(t *testing.T) {
	ctx := context.Background()
	runs := newFakeRunStore()
	writer := newTestCache(NewMemoryStore(), runs)
	petID := uuid.New()
	want := sampleResult(petID, time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond))
	writer.Put(ctx, want, 0)

	store := NewMemoryStore()
	c := newTestCache(store, runs)
	got, src := c.Get(ctx, petID)
	if src != SourceDurable {
		t.Fatalf("want=durable got=%s", src)
	}
	sameResult(t, want, got)
	if got.Items[0].Rank != 1 || got.Items[1].Rank != 2 {
		t.Fatalf("ranks not restored: %+v", got.Items)
	}

	if _, ok, _ := store.Get(ctx, ResultKey(petID)); !ok {
		t.Fatalf("durable hit should fill the ephemeral tier")
	}
	if _, src := c.Get(ctx, petID); src != SourceEphemeral {
		t.Fatalf("second read should hit ephemeral, got=%s", src)
	}
}

func TestDurableTierRespectsFreshness(t *testing.T) {
	ctx := context.Background()
	runs := newFakeRunStore()
	c := newTestCache(NewMemoryStore(), runs)
	petID := uuid.New()
	old := sampleResult(petID, time.Now().Add(-8*24*time.Hour))
	run, items, err := runFromResult(old)
	if err != nil {
		t.Fatalf("runFromResult: %v", err)
	}
	_ = runs.CreateRun(ctx, run, items)

	if got, src := c.Get(ctx, petID); got != nil {
		t.Fatalf("run older than the freshness window must miss, got source=%s", src)
	}
}

func TestInvalidateAllHidesDurableRuns(t *testing.T) {
	ctx := context.Background()
	runs := newFakeRunStore()
	store := NewMemoryStore()
	c := newTestCache(store, runs)
	petA, petB := uuid.New(), uuid.New()
	c.Put(ctx, sampleResult(petA, time.Now().Add(-time.Minute)), 0)
	c.Put(ctx, sampleResult(petB, time.Now().Add(-time.Minute)), 0)
	c.PutPetSummary(ctx, petA, map[string]string{"name": "Bori"})

	if n := c.InvalidateAll(ctx); n != 6 {
		t.Fatalf("want 6 rec keys deleted got=%d", n)
	}
	if got, _ := c.Get(ctx, petA); got != nil {
		t.Fatalf("petA should miss after invalidate-all")
	}
	if got, _ := c.Get(ctx, petB); got != nil {
		t.Fatalf("petB should miss after invalidate-all")
	}
	var summary map[string]string
	if !c.GetPetSummary(ctx, petA, &summary) {
		t.Fatalf("pet summaries live outside rec:* and survive invalidate-all")
	}

	fresh := sampleResult(petA, time.Now().Add(time.Second))
	c.Put(ctx, fresh, 0)
	if got, _ := c.Get(ctx, petA); got == nil {
		t.Fatalf("results computed after invalidation must be served")
	}
}

func TestInvalidateProductScoresAcrossPets(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(NewMemoryStore(), nil)
	product, other := uuid.New(), uuid.New()
	petA, petB := uuid.New(), uuid.New()
	c.PutMatchScore(ctx, petA, product, 70.0)
	c.PutMatchScore(ctx, petB, product, 65.0)
	c.PutMatchScore(ctx, petA, other, 50.0)

	if n := c.InvalidateProduct(ctx, product); n != 2 {
		t.Fatalf("want=2 got=%d", n)
	}
	var score float64
	if c.GetMatchScore(ctx, petB, product, &score) {
		t.Fatalf("score for invalidated product should be gone")
	}
	if !c.GetMatchScore(ctx, petA, other, &score) || score != 50 {
		t.Fatalf("other product's score should survive, got=%v", score)
	}
}

func TestInvalidatePetDropsSummaryAndScores(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(NewMemoryStore(), nil)
	pet, product := uuid.New(), uuid.New()
	c.PutPetSummary(ctx, pet, map[string]string{"name": "Choco"})
	c.PutMatchScore(ctx, pet, product, 80.0)

	c.Invalidate(ctx, pet)
	var summary map[string]string
	if c.GetPetSummary(ctx, pet, &summary) {
		t.Fatalf("summary should be invalidated with the pet")
	}
	var score float64
	if c.GetMatchScore(ctx, pet, product, &score) {
		t.Fatalf("match score should be invalidated with the pet")
	}
}

func TestStoreFailuresDegradeToMiss(t *testing.T) {
	ctx := context.Background()
	runs := newFakeRunStore()
	c := newTestCache(failingStore{}, runs)
	petID := uuid.New()
	res := sampleResult(petID, time.Now())

	c.Put(ctx, res, 0)
	if res.RunID == uuid.Nil {
		t.Fatalf("durable write should still succeed")
	}
	got, src := c.Get(ctx, petID)
	if src != SourceDurable || got == nil {
		t.Fatalf("want durable fallback got=%s", src)
	}
	if n := c.InvalidateAll(ctx); n != 0 {
		t.Fatalf("want=0 got=%d", n)
	}
}

func TestRunWriteFailureStillCaches(t *testing.T) {
	ctx := context.Background()
	runs := newFakeRunStore()
	runs.createErr = errors.New("db down")
	c := newTestCache(NewMemoryStore(), runs)
	petID := uuid.New()
	c.Put(ctx, sampleResult(petID, time.Now()), 0)
	if got, src := c.Get(ctx, petID); got == nil || src != SourceEphemeral {
		t.Fatalf("ephemeral entry should be written despite the run failure, got=%s", src)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	_ = s.SetWithTTL(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expired entry should miss")
	}
}

func TestRepoRunStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	runs := NewRepoRunStore(repos.NewRecommendationRunRepo(db, testutil.Logger(t)))
	c := newTestCache(NewMemoryStore(), runs)
	petID := uuid.New()
	want := sampleResult(petID, time.Now().UTC().Add(-time.Minute).Truncate(time.Millisecond))
	c.Put(ctx, want, 0)

	fresh := newTestCache(NewMemoryStore(), runs)
	got, src := fresh.Get(ctx, petID)
	if src != SourceDurable {
		t.Fatalf("want=durable got=%s", src)
	}
	sameResult(t, want, got)
}

// invalidatingRunStore invalidates the pet while the durable tier is mid-read.
type invalidatingRunStore struct {
	*fakeRunStore
	cache *RecommendationCache
	petID uuid.UUID
	once  sync.Once
}

func (s *invalidatingRunStore) ItemsForRun(ctx context.Context, runID uuid.UUID, limit int) ([]*types.RecommendationRunItem, error) {
	s.once.Do(func() { s.cache.Invalidate(ctx, s.petID) })
	return s.fakeRunStore.ItemsForRun(ctx, runID, limit)
}

func TestInvalidateDuringDurableRefillIsNotServed(t *testing.T) {
	ctx := context.Background()
	petID := uuid.New()
	runs := &invalidatingRunStore{fakeRunStore: newFakeRunStore(), petID: petID}
	c := newTestCache(NewMemoryStore(), runs)
	runs.cache = c

	old := sampleResult(petID, time.Now().Add(-time.Minute))
	old.Strategy = "rule_v1:SAFE"
	run, items, err := runFromResult(old)
	if err != nil {
		t.Fatalf("runFromResult: %v", err)
	}
	_ = runs.CreateRun(ctx, run, items)

	// The first read races the invalidation and may still return the old run.
	c.Get(ctx, petID)

	if got, src := c.Get(ctx, petID); got != nil {
		t.Fatalf("invalidated result served from %s (strategy=%s)", src, got.Strategy)
	}

	fresh := sampleResult(petID, time.Now().Add(time.Second))
	c.Put(ctx, fresh, 0)
	if got, src := c.Get(ctx, petID); got == nil || src != SourceEphemeral {
		t.Fatalf("result computed after invalidation must be served, got=%v source=%s", got, src)
	}
}

func TestStaleEphemeralEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := newTestCache(store, nil)
	petID := uuid.New()

	c.Invalidate(ctx, petID)
	// Simulate a writer that lost the race with the invalidation above.
	c.writeEphemeral(ctx, sampleResult(petID, time.Now().Add(-time.Minute)), 0)

	if got, _ := c.Get(ctx, petID); got != nil {
		t.Fatalf("entry computed before the watermark must miss")
	}
}
