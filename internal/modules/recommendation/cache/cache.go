package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/observability"
	"github.com/yungbote/petfit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

const (
	tierEphemeral = "ephemeral"
	tierDurable   = "durable"

	deleteBatchSize = 500
)

type Source uint8

const (
	SourceNone Source = iota
	SourceEphemeral
	SourceDurable
)

func (s Source) String() string {
	switch s {
	case SourceEphemeral:
		return tierEphemeral
	case SourceDurable:
		return tierDurable
	}
	return "none"
}

type Config struct {
	RecommendationTTL time.Duration
	SummaryTTL        time.Duration
	ScoreTTL          time.Duration
	FreshnessWindow   time.Duration
	// OpTimeout bounds each ephemeral store call; DurableTimeout each run store call.
	OpTimeout      time.Duration
	DurableTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		RecommendationTTL: DefaultRecommendationTTL,
		SummaryTTL:        DefaultSummaryTTL,
		ScoreTTL:          DefaultScoreTTL,
		FreshnessWindow:   DefaultFreshnessWindow,
		OpTimeout:         DefaultOpTimeout,
		DurableTimeout:    2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RecommendationTTL <= 0 {
		c.RecommendationTTL = d.RecommendationTTL
	}
	if c.SummaryTTL <= 0 {
		c.SummaryTTL = d.SummaryTTL
	}
	if c.ScoreTTL <= 0 {
		c.ScoreTTL = d.ScoreTTL
	}
	if c.FreshnessWindow <= 0 {
		c.FreshnessWindow = d.FreshnessWindow
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = d.OpTimeout
	}
	if c.DurableTimeout <= 0 {
		c.DurableTimeout = d.DurableTimeout
	}
	return c
}

// RecommendationCache reads through an ephemeral store and the durable run history.
// Store failures never reach the caller: reads become misses and writes are skipped.
type RecommendationCache struct {
	log   *logger.Logger
	store Store
	runs  RunStore
	cfg   Config
	now   func() time.Time
}

// New builds the cache. runs may be nil, which disables the durable tier.
func New(log *logger.Logger, store Store, runs RunStore, cfg Config) *RecommendationCache {
	return &RecommendationCache{
		log:   log.With("module", "RecommendationCache"),
		store: store,
		runs:  runs,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
	}
}

func (c *RecommendationCache) Config() Config { return c.cfg }

// Get returns the newest result still inside the freshness window, or nil.
func (c *RecommendationCache) Get(ctx context.Context, petID uuid.UUID) (*Result, Source) {
	if res := c.getEphemeral(ctx, petID); res != nil {
		return res, SourceEphemeral
	}
	if res := c.getDurable(ctx, petID); res != nil {
		return res, SourceDurable
	}
	return nil, SourceNone
}

func (c *RecommendationCache) getEphemeral(ctx context.Context, petID uuid.UUID) *Result {
	var res Result
	switch ok, err := c.getJSON(ctx, ResultKey(petID), &res); {
	case err != nil:
		observability.ObserveCacheLookup(tierEphemeral, "error")
		return nil
	case !ok:
		observability.ObserveCacheLookup(tierEphemeral, "miss")
		return nil
	}
	// A durable refill racing an invalidation can write an entry older than the watermark.
	if c.now().Sub(res.ComputedAt) > c.cfg.FreshnessWindow || !res.ComputedAt.After(c.watermark(ctx, petID)) {
		observability.ObserveCacheLookup(tierEphemeral, "stale")
		return nil
	}
	observability.ObserveCacheLookup(tierEphemeral, "hit")
	return &res
}

func (c *RecommendationCache) getDurable(ctx context.Context, petID uuid.UUID) *Result {
	if c.runs == nil {
		return nil
	}
	dctx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.DurableTimeout)
	defer cancel()

	run, err := c.runs.LatestRun(dctx, petID)
	if err != nil {
		c.log.Warn("durable cache read failed", "pet_id", petID, "error", err)
		observability.ObserveCacheLookup(tierDurable, "error")
		return nil
	}
	if run == nil {
		observability.ObserveCacheLookup(tierDurable, "miss")
		return nil
	}
	age := c.now().Sub(run.CreatedAt)
	if age > c.cfg.FreshnessWindow || !run.CreatedAt.After(c.watermark(ctx, petID)) {
		observability.ObserveCacheLookup(tierDurable, "stale")
		return nil
	}

	items, err := c.runs.ItemsForRun(dctx, run.ID, 0)
	if err != nil {
		c.log.Warn("durable cache item read failed", "pet_id", petID, "run_id", run.ID, "error", err)
		observability.ObserveCacheLookup(tierDurable, "error")
		return nil
	}
	res, err := resultFromRun(run, items)
	if err != nil {
		c.log.Warn("durable cache decode failed", "pet_id", petID, "run_id", run.ID, "error", err)
		observability.ObserveCacheLookup(tierDurable, "error")
		return nil
	}
	observability.ObserveCacheLookup(tierDurable, "hit")

	ttl := c.cfg.FreshnessWindow - age
	if ttl > c.cfg.RecommendationTTL {
		ttl = c.cfg.RecommendationTTL
	}
	c.writeEphemeral(ctx, res, ttl)
	return res
}

// watermark is the latest invalidation time covering petID. Runs at or before it are ignored.
func (c *RecommendationCache) watermark(ctx context.Context, petID uuid.UUID) time.Time {
	var latest time.Time
	for _, key := range []string{petWatermarkKey(petID), globalWatermarkKey()} {
		raw, ok, err := c.get(ctx, key)
		if err != nil || !ok {
			continue
		}
		nanos, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr != nil {
			continue
		}
		if t := time.Unix(0, nanos); t.After(latest) {
			latest = t
		}
	}
	return latest
}

// Put appends a run to the durable tier and writes the ephemeral entry. A ttl <= 0 uses the
// configured recommendation TTL. A durable write failure is logged and the ephemeral write still happens.
func (c *RecommendationCache) Put(ctx context.Context, res *Result, ttl time.Duration) {
	if res == nil || res.PetID == uuid.Nil {
		return
	}
	if res.ComputedAt.IsZero() {
		res.ComputedAt = c.now()
	}
	if c.runs != nil {
		run, items, err := runFromResult(res)
		if err == nil {
			dctx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.DurableTimeout)
			err = c.runs.CreateRun(dctx, run, items)
			cancel()
		}
		if err != nil {
			c.log.Warn("run history write failed", "pet_id", res.PetID, "error", err)
		} else {
			res.RunID = run.ID
		}
	}
	c.writeEphemeral(ctx, res, ttl)
}

// PutEphemeral rewrites only the ephemeral entry, keeping the remaining freshness.
func (c *RecommendationCache) PutEphemeral(ctx context.Context, res *Result) {
	if res == nil || res.PetID == uuid.Nil {
		return
	}
	ttl := c.cfg.FreshnessWindow - c.now().Sub(res.ComputedAt)
	if ttl <= 0 {
		return
	}
	if ttl > c.cfg.RecommendationTTL {
		ttl = c.cfg.RecommendationTTL
	}
	c.writeEphemeral(ctx, res, ttl)
}

func (c *RecommendationCache) writeEphemeral(ctx context.Context, res *Result, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.RecommendationTTL
	}
	c.setJSON(ctx, ResultKey(res.PetID), res, ttl)
	c.setJSON(ctx, MetaKey(res.PetID), meta{
		RunID:      res.RunID,
		Strategy:   res.Strategy,
		ItemCount:  len(res.Items),
		ComputedAt: res.ComputedAt,
	}, ttl)
	c.setJSON(ctx, TagsKey(res.PetID), tags{ProductIDs: res.productIDs()}, ttl)
}

// Invalidate drops every cached entry for petID and hides its existing runs from the durable tier.
func (c *RecommendationCache) Invalidate(ctx context.Context, petID uuid.UUID) int64 {
	keys := []string{ResultKey(petID), MetaKey(petID), TagsKey(petID), SummaryKey(petID)}
	keys = append(keys, c.scan(ctx, petScorePattern(petID))...)
	c.setWatermark(ctx, petWatermarkKey(petID))
	n := c.deleteKeys(ctx, keys)
	observability.InvalidationsTotal.WithLabelValues("pet").Inc()
	c.log.Info("recommendation cache invalidated", "pet_id", petID, "deleted", n)
	return n
}

// InvalidateSummary drops only the cached pet summary.
func (c *RecommendationCache) InvalidateSummary(ctx context.Context, petID uuid.UUID) int64 {
	return c.deleteKeys(ctx, []string{SummaryKey(petID)})
}

// InvalidateProduct drops the match scores of productID for every pet.
func (c *RecommendationCache) InvalidateProduct(ctx context.Context, productID uuid.UUID) int64 {
	n := c.deleteKeys(ctx, c.scan(ctx, productScorePattern(productID)))
	observability.InvalidationsTotal.WithLabelValues("product").Inc()
	c.log.Info("match scores invalidated", "product_id", productID, "deleted", n)
	return n
}

// InvalidateAll drops every recommendation entry. Partial failures are logged, not retried.
func (c *RecommendationCache) InvalidateAll(ctx context.Context) int64 {
	c.setWatermark(ctx, globalWatermarkKey())
	n := c.deleteKeys(ctx, c.scan(ctx, allRecommendationsPattern()))
	observability.InvalidationsTotal.WithLabelValues("all").Inc()
	c.log.Info("all recommendations invalidated", "deleted", n)
	return n
}

func (c *RecommendationCache) GetPetSummary(ctx context.Context, petID uuid.UUID, dst any) bool {
	ok, err := c.getJSON(ctx, SummaryKey(petID), dst)
	return ok && err == nil
}

func (c *RecommendationCache) PutPetSummary(ctx context.Context, petID uuid.UUID, v any) {
	c.setJSON(ctx, SummaryKey(petID), v, c.cfg.SummaryTTL)
}

func (c *RecommendationCache) GetMatchScore(ctx context.Context, petID, productID uuid.UUID, dst any) bool {
	ok, err := c.getJSON(ctx, ScoreKey(petID, productID), dst)
	return ok && err == nil
}

func (c *RecommendationCache) PutMatchScore(ctx context.Context, petID, productID uuid.UUID, v any) {
	c.setJSON(ctx, ScoreKey(petID, productID), v, c.cfg.ScoreTTL)
}

func (c *RecommendationCache) get(ctx context.Context, key string) ([]byte, bool, error) {
	opCtx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()
	raw, ok, err := c.store.Get(opCtx, key)
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return nil, false, err
	}
	return raw, ok, nil
}

func (c *RecommendationCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry decode failed", "key", key, "error", err)
		return false, err
	}
	return true, nil
}

func (c *RecommendationCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache entry encode failed", "key", key, "error", err)
		return
	}
	opCtx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()
	if err := c.store.SetWithTTL(opCtx, key, raw, ttl); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *RecommendationCache) setWatermark(ctx context.Context, key string) {
	opCtx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()
	val := []byte(strconv.FormatInt(c.now().UnixNano(), 10))
	if err := c.store.SetWithTTL(opCtx, key, val, c.cfg.FreshnessWindow); err != nil {
		c.log.Warn("invalidation watermark write failed", "key", key, "error", err)
	}
}

func (c *RecommendationCache) scan(ctx context.Context, pattern string) []string {
	opCtx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.OpTimeout*4)
	defer cancel()
	keys, err := c.store.ScanByPattern(opCtx, pattern)
	if err != nil {
		c.log.Warn("cache scan failed", "pattern", pattern, "found", len(keys), "error", err)
	}
	return keys
}

func (c *RecommendationCache) deleteKeys(ctx context.Context, keys []string) int64 {
	var total int64
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		opCtx, cancel := ctxutil.WithOpTimeout(ctx, c.cfg.OpTimeout)
		n, err := c.store.Delete(opCtx, keys[start:end]...)
		cancel()
		total += n
		if err != nil {
			c.log.Warn("cache delete failed", "batch_start", start, "batch_size", end-start, "error", err)
		}
	}
	return total
}

func runFromResult(res *Result) (*types.RecommendationRun, []*types.RecommendationRunItem, error) {
	ctxSnap, err := json.Marshal(runContext{Message: res.Message, Stats: res.Stats})
	if err != nil {
		return nil, nil, fmt.Errorf("encode run context: %w", err)
	}
	run := &types.RecommendationRun{
		ID:              uuid.New(),
		PetID:           res.PetID,
		Strategy:        res.Strategy,
		ContextSnapshot: datatypes.JSON(ctxSnap),
		CreatedAt:       res.ComputedAt,
	}
	if res.Prefs != nil {
		prefs, err := json.Marshal(res.Prefs)
		if err != nil {
			return nil, nil, fmt.Errorf("encode prefs snapshot: %w", err)
		}
		run.PrefsSnapshot = datatypes.JSON(prefs)
	}

	items := make([]*types.RecommendationRunItem, 0, len(res.Items))
	for i, it := range res.Items {
		reasons, err := json.Marshal(it.Reasons)
		if err != nil {
			return nil, nil, fmt.Errorf("encode reasons: %w", err)
		}
		detail, err := json.Marshal(itemDetail{
			Breakdown:   it.Breakdown,
			Safety:      it.Safety,
			Fitness:     it.Fitness,
			AgePenalty:  it.AgePenalty,
			BrandName:   it.BrandName,
			ProductName: it.ProductName,
			PricePerKg:  it.PricePerKg,
			Merchant:    it.Merchant,
			Explanation: it.Explanation,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("encode breakdown: %w", err)
		}
		items = append(items, &types.RecommendationRunItem{
			ProductID: it.ProductID,
			Rank:      i + 1,
			Score:     it.Total,
			Reasons:   datatypes.JSON(reasons),
			Breakdown: datatypes.JSON(detail),
		})
	}
	return run, items, nil
}

func resultFromRun(run *types.RecommendationRun, rows []*types.RecommendationRunItem) (*Result, error) {
	res := &Result{
		PetID:      run.PetID,
		RunID:      run.ID,
		Strategy:   run.Strategy,
		Items:      make([]Item, 0, len(rows)),
		ComputedAt: run.CreatedAt,
	}
	if len(run.ContextSnapshot) > 0 {
		var rc runContext
		if err := json.Unmarshal(run.ContextSnapshot, &rc); err != nil {
			return nil, fmt.Errorf("decode run context: %w", err)
		}
		res.Message = rc.Message
		res.Stats = rc.Stats
	}
	if len(run.PrefsSnapshot) > 0 {
		var p types.RecoPrefs
		if err := json.Unmarshal(run.PrefsSnapshot, &p); err != nil {
			return nil, fmt.Errorf("decode prefs snapshot: %w", err)
		}
		res.Prefs = &p
	}
	for _, row := range rows {
		it := Item{ProductID: row.ProductID, Rank: row.Rank, Total: row.Score}
		if len(row.Reasons) > 0 {
			if err := json.Unmarshal(row.Reasons, &it.Reasons); err != nil {
				return nil, fmt.Errorf("decode reasons for %s: %w", row.ProductID, err)
			}
		}
		if len(row.Breakdown) > 0 {
			var d itemDetail
			if err := json.Unmarshal(row.Breakdown, &d); err != nil {
				return nil, fmt.Errorf("decode breakdown for %s: %w", row.ProductID, err)
			}
			it.Breakdown = d.Breakdown
			it.Safety = d.Safety
			it.Fitness = d.Fitness
			it.AgePenalty = d.AgePenalty
			it.BrandName = d.BrandName
			it.ProductName = d.ProductName
			it.PricePerKg = d.PricePerKg
			it.Merchant = d.Merchant
			it.Explanation = d.Explanation
		}
		res.Items = append(res.Items, it)
	}
	return res, nil
}
