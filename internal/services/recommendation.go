package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/petfit-backend/internal/clients/redis"
	"github.com/yungbote/petfit-backend/internal/data/repos"
	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/cache"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/ranking"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/observability"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

// MessageUnavailable is returned, uncached, when the candidate catalog cannot be read.
const MessageUnavailable = "recommendations are temporarily unavailable"

type RecommendationOptions struct {
	ForceRefresh    bool
	ExplanationOnly bool
	// Limit bounds the returned items; <= 0 or above the list limit returns the full list.
	Limit int
}

type RankedResult struct {
	PetID          uuid.UUID           `json:"pet_id"`
	RunID          uuid.UUID           `json:"run_id,omitempty"`
	Strategy       string              `json:"strategy,omitempty"`
	Items          []cache.Item        `json:"items"`
	IsCached       bool                `json:"is_cached"`
	Source         string              `json:"source"`
	LastComputedAt time.Time           `json:"last_computed_at"`
	Message        string              `json:"message,omitempty"`
	Stats          ranking.FilterStats `json:"filter_stats"`
}

type MatchScore struct {
	PetID      uuid.UUID         `json:"pet_id"`
	ProductID  uuid.UUID         `json:"product_id"`
	Total      float64           `json:"match_score"`
	Safety     float64           `json:"safety_score"`
	Fitness    float64           `json:"fitness_score"`
	AgePenalty float64           `json:"age_penalty"`
	Excluded   bool              `json:"excluded"`
	Outcome    string            `json:"outcome"`
	Reasons    []string          `json:"match_reasons"`
	Breakdown  scoring.Breakdown `json:"breakdown"`
	PricePerKg *float64          `json:"price_per_kg,omitempty"`
	IsCached   bool              `json:"is_cached"`
	ComputedAt time.Time         `json:"computed_at"`
}

type RecommendationConfig struct {
	ListLimit      int
	ComputeTimeout time.Duration
	ExplainTop     int
	ExplainTimeout time.Duration
}

func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		ListLimit:      10,
		ComputeTimeout: 20 * time.Second,
		ExplainTop:     3,
		ExplainTimeout: 10 * time.Second,
	}
}

func (c RecommendationConfig) withDefaults() RecommendationConfig {
	d := DefaultRecommendationConfig()
	if c.ListLimit <= 0 {
		c.ListLimit = d.ListLimit
	}
	if c.ComputeTimeout <= 0 {
		c.ComputeTimeout = d.ComputeTimeout
	}
	if c.ExplainTop < 0 {
		c.ExplainTop = 0
	}
	if c.ExplainTimeout <= 0 {
		c.ExplainTimeout = d.ExplainTimeout
	}
	return c
}

type RecommendationService interface {
	GetRecommendations(ctx context.Context, petID uuid.UUID, opts RecommendationOptions) (*RankedResult, error)
	GetMatchScore(ctx context.Context, petID, productID uuid.UUID) (*MatchScore, error)

	InvalidatePet(ctx context.Context, petID uuid.UUID) int64
	InvalidateProduct(ctx context.Context, productID uuid.UUID) int64
	InvalidateAll(ctx context.Context) int64
	HandleInvalidation(ctx context.Context, ev redis.InvalidationEvent)
}

type recommendationService struct {
	log       *logger.Logger
	petRepo   repos.PetRepo
	products  repos.ProductRepo
	prefsRepo repos.UserRecoPrefsRepo
	lookups   LookupProvider
	offers    OfferProvider
	explainer ExplanationGenerator
	cache     *cache.RecommendationCache
	cfg       RecommendationConfig

	group singleflight.Group
	now   func() time.Time
}

// NewRecommendationService wires the orchestrator. offers and explainer may be nil.
func NewRecommendationService(
	log *logger.Logger,
	petRepo repos.PetRepo,
	products repos.ProductRepo,
	prefsRepo repos.UserRecoPrefsRepo,
	lookups LookupProvider,
	offers OfferProvider,
	explainer ExplanationGenerator,
	rc *cache.RecommendationCache,
	cfg RecommendationConfig,
) RecommendationService {
	return &recommendationService{
		log:       log.With("service", "RecommendationService"),
		petRepo:   petRepo,
		products:  products,
		prefsRepo: prefsRepo,
		lookups:   lookups,
		offers:    offers,
		explainer: explainer,
		cache:     rc,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, petID uuid.UUID, opts RecommendationOptions) (*RankedResult, error) {
	start := s.now()
	ctx, span := observability.Tracer().Start(ctx, "recommendation.get")
	defer span.End()
	span.SetAttributes(
		attribute.String("pet_id", petID.String()),
		attribute.Bool("force_refresh", opts.ForceRefresh),
		attribute.Bool("explanation_only", opts.ExplanationOnly),
	)

	if !opts.ForceRefresh {
		if res, src := s.cache.Get(ctx, petID); res != nil {
			if opts.ExplanationOnly {
				s.fillMissingExplanations(ctx, res)
			}
			span.SetAttributes(attribute.String("source", src.String()))
			observability.ObserveRecommendation(src.String(), s.now().Sub(start))
			return rankedFrom(res.Truncated(s.limit(opts)), true, src.String()), nil
		}
	}

	res, err := s.computeShared(ctx, petID, opts.ForceRefresh)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	observability.ObserveRecommendation("computed", s.now().Sub(start))
	return rankedFrom(res.Truncated(s.limit(opts)), false, "computed"), nil
}

func (s *recommendationService) limit(opts RecommendationOptions) int {
	if opts.Limit <= 0 || opts.Limit > s.cfg.ListLimit {
		return s.cfg.ListLimit
	}
	return opts.Limit
}

// computeShared coalesces concurrent computations for the same pet and mode. The computation
// outlives a canceled caller and is bounded by ComputeTimeout.
func (s *recommendationService) computeShared(ctx context.Context, petID uuid.UUID, force bool) (*cache.Result, error) {
	key := petID.String() + ":normal"
	if force {
		key = petID.String() + ":force"
	}
	ch := s.group.DoChan(key, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ComputeTimeout)
		defer cancel()
		return s.compute(cctx, petID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*cache.Result), nil
	}
}

func (s *recommendationService) compute(ctx context.Context, petID uuid.UUID) (*cache.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "recommendation.compute")
	defer span.End()

	summary, err := s.petSummary(ctx, petID)
	if err != nil {
		return nil, err
	}

	var (
		products        []*types.Product
		speciesExcluded int
		prefs           types.RecoPrefs
		lookup          *scoring.Lookup
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		products, speciesExcluded, err = s.products.ListActiveCandidates(dbctx.New(ctx), summary.Species)
		return err
	})
	g.Go(func() error {
		prefs = s.loadPrefs(ctx, summary.OwnerUserID)
		return nil
	})
	g.Go(func() error {
		var err error
		lookup, err = s.loadLookup(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("candidate load failed", "pet_id", petID, "error", err)
		span.RecordError(err)
		return &cache.Result{
			PetID:      petID,
			Strategy:   strategyFor(prefs),
			Items:      []cache.Item{},
			Message:    MessageUnavailable,
			ComputedAt: s.now(),
		}, nil
	}

	cands := s.buildCandidates(ctx, petID, products)
	subj := subjectFromSummary(summary)
	sprefs := prefsFromReco(prefs)
	subj = subj.WithPrefs(sprefs)

	_, rankSpan := observability.Tracer().Start(ctx, "recommendation.rank")
	ranked, stats := ranking.NewPipeline(s.log, scoring.NewScorer(lookup)).Rank(ctx, &subj, cands, sprefs, s.cfg.ListLimit)
	stats.AddSpeciesExcluded(speciesExcluded)
	rankSpan.SetAttributes(attribute.Int("candidates", stats.Total), attribute.Int("passed", stats.Passed))
	rankSpan.End()

	res := &cache.Result{
		PetID:      petID,
		Strategy:   strategyFor(prefs),
		Items:      make([]cache.Item, 0, len(ranked)),
		Stats:      stats,
		Prefs:      &prefs,
		ComputedAt: s.now(),
	}
	for i, sc := range ranked {
		res.Items = append(res.Items, cache.ItemFromScored(sc, i+1))
	}
	if len(res.Items) == 0 {
		res.Message = stats.Message()
		s.log.Info("no recommendations", "pet_id", petID, "message", res.Message, "total", stats.Total)
		return res, nil
	}

	s.explain(ctx, summary, res.Items)
	s.cache.Put(ctx, res, 0)
	s.log.Debug("recommendations computed", "pet_id", petID, "items", len(res.Items), "run_id", res.RunID)
	return res, nil
}

// buildCandidates converts products to scoring candidates and attaches offer prices. A product whose
// parsed profile is invalid enters the pipeline as nil and is counted as a scoring error.
func (s *recommendationService) buildCandidates(ctx context.Context, petID uuid.UUID, products []*types.Product) []*scoring.Candidate {
	var quotes map[uuid.UUID]OfferQuote
	if s.offers != nil && len(products) > 0 {
		q, err := s.offers.Quotes(ctx, products)
		if err != nil {
			s.log.Warn("offer lookup failed, using stored prices", "pet_id", petID, "error", err)
		}
		quotes = q
	}
	out := make([]*scoring.Candidate, 0, len(products))
	for _, p := range products {
		c, err := candidateFromProduct(p)
		if err != nil {
			s.log.Warn("invalid product profile", "product_id", p.ID, "error", err)
			out = append(out, nil)
			continue
		}
		if q, ok := quotes[p.ID]; ok {
			c.PricePerKg = q.PricePerKg
			c.Merchant = q.Merchant
		}
		out = append(out, c)
	}
	return out
}

func (s *recommendationService) petSummary(ctx context.Context, petID uuid.UUID) (PetSummary, error) {
	var sum PetSummary
	if s.cache.GetPetSummary(ctx, petID, &sum) && sum.ID == petID {
		return sum, nil
	}
	pet, err := s.petRepo.GetByID(dbctx.New(ctx), petID)
	if err != nil {
		return PetSummary{}, fmt.Errorf("load pet %s: %w", petID, err)
	}
	if pet == nil {
		return PetSummary{}, ErrPetNotFound
	}
	sum = petSummaryFromPet(pet)
	s.cache.PutPetSummary(ctx, petID, sum)
	return sum, nil
}

// loadPrefs never fails: a missing, unreadable or invalid document yields the defaults.
func (s *recommendationService) loadPrefs(ctx context.Context, ownerID uuid.UUID) types.RecoPrefs {
	if s.prefsRepo == nil {
		return types.DefaultRecoPrefs()
	}
	row, err := s.prefsRepo.GetByUserID(dbctx.New(ctx), ownerID)
	if err != nil {
		s.log.Warn("preference load failed, using defaults", "user_id", ownerID, "error", err)
		return types.DefaultRecoPrefs()
	}
	prefs, err := row.Decode()
	if err == nil {
		err = validate.Struct(prefs)
	}
	if err != nil {
		s.log.Warn("invalid preferences, using defaults", "user_id", ownerID, "error", err)
		return types.DefaultRecoPrefs()
	}
	return prefs
}

func (s *recommendationService) loadLookup(ctx context.Context) (*scoring.Lookup, error) {
	if s.lookups != nil {
		l, err := s.lookups.Lookup(ctx)
		if err == nil {
			return l, nil
		}
		s.log.Warn("ingredient lookup failed, using defaults", "error", err)
	}
	return scoring.DefaultLookup()
}

// explain fills explanations for the top items in place. Failures leave the explanation empty.
func (s *recommendationService) explain(ctx context.Context, pet PetSummary, items []cache.Item) int {
	if s.explainer == nil || s.cfg.ExplainTop == 0 {
		return 0
	}
	n := min(s.cfg.ExplainTop, len(items))
	ectx, cancel := context.WithTimeout(ctx, s.cfg.ExplainTimeout)
	defer cancel()

	filled := make([]bool, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		if items[i].Explanation != nil {
			continue
		}
		g.Go(func() error {
			text, err := s.explainer.Explain(ectx, ExplanationInput{
				Pet:         pet,
				BrandName:   items[i].BrandName,
				ProductName: items[i].ProductName,
				Reasons:     items[i].Reasons,
			})
			if err != nil {
				if !errors.Is(err, ErrExplanationUnavailable) {
					s.log.Warn("explanation failed", "pet_id", pet.ID, "product_id", items[i].ProductID, "error", err)
				}
				return nil
			}
			items[i].Explanation = &text
			filled[i] = true
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, ok := range filled {
		if ok {
			count++
		}
	}
	return count
}

// fillMissingExplanations enriches a cached result without re-ranking and rewrites the ephemeral entry.
func (s *recommendationService) fillMissingExplanations(ctx context.Context, res *cache.Result) {
	if len(res.Items) == 0 || s.explainer == nil {
		return
	}
	pet, err := s.petSummary(ctx, res.PetID)
	if err != nil {
		s.log.Warn("explanation fill skipped", "pet_id", res.PetID, "error", err)
		return
	}
	res.Items = append([]cache.Item(nil), res.Items...)
	if s.explain(ctx, pet, res.Items) > 0 {
		s.cache.PutEphemeral(ctx, res)
	}
}

func (s *recommendationService) GetMatchScore(ctx context.Context, petID, productID uuid.UUID) (*MatchScore, error) {
	ctx, span := observability.Tracer().Start(ctx, "recommendation.match_score")
	defer span.End()

	var cached MatchScore
	if s.cache.GetMatchScore(ctx, petID, productID, &cached) && cached.ProductID == productID {
		cached.IsCached = true
		return &cached, nil
	}

	summary, err := s.petSummary(ctx, petID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(dbctx.New(ctx), productID)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	prefs := s.loadPrefs(ctx, summary.OwnerUserID)
	lookup, err := s.loadLookup(ctx)
	if err != nil {
		return nil, err
	}

	cands := s.buildCandidates(ctx, petID, []*types.Product{product})
	if cands[0] == nil {
		return nil, fmt.Errorf("product %s has an invalid ingredient profile", productID)
	}
	cand := cands[0]
	sprefs := prefsFromReco(prefs)
	subj := subjectFromSummary(summary).WithPrefs(sprefs)
	ev := scoring.NewScorer(lookup).Evaluate(&subj, cand, sprefs)

	ms := &MatchScore{
		PetID:      petID,
		ProductID:  productID,
		Safety:     ev.Safety.Score,
		Fitness:    ev.Fitness.Score,
		Total:      ev.Total(),
		AgePenalty: ev.Fitness.AgePenalty,
		Excluded:   ev.Outcome != scoring.OutcomeRanked,
		Outcome:    ev.Outcome.String(),
		Reasons:    ev.Reasons(),
		Breakdown:  ev.Breakdown(),
		PricePerKg: cand.PricePerKg,
		ComputedAt: s.now(),
	}
	s.cache.PutMatchScore(ctx, petID, productID, ms)
	return ms, nil
}

func (s *recommendationService) InvalidatePet(ctx context.Context, petID uuid.UUID) int64 {
	n := s.cache.Invalidate(ctx, petID)
	s.log.Info("pet recommendations invalidated", "pet_id", petID, "keys", n)
	return n
}

func (s *recommendationService) InvalidateProduct(ctx context.Context, productID uuid.UUID) int64 {
	n := s.cache.InvalidateProduct(ctx, productID)
	s.log.Info("product scores invalidated", "product_id", productID, "keys", n)
	return n
}

func (s *recommendationService) InvalidateAll(ctx context.Context) int64 {
	n := s.cache.InvalidateAll(ctx)
	s.log.Info("all recommendations invalidated", "keys", n)
	return n
}

func (s *recommendationService) HandleInvalidation(ctx context.Context, ev redis.InvalidationEvent) {
	switch ev.Scope {
	case redis.ScopePet:
		s.InvalidatePet(ctx, ev.ID)
	case redis.ScopeProduct:
		s.InvalidateProduct(ctx, ev.ID)
	case redis.ScopeAll:
		s.InvalidateAll(ctx)
	default:
		s.log.Warn("unknown invalidation scope", "scope", ev.Scope)
	}
}

func rankedFrom(res *cache.Result, cached bool, source string) *RankedResult {
	items := res.Items
	if items == nil {
		items = []cache.Item{}
	}
	return &RankedResult{
		PetID:          res.PetID,
		RunID:          res.RunID,
		Strategy:       res.Strategy,
		Items:          items,
		IsCached:       cached,
		Source:         source,
		LastComputedAt: res.ComputedAt,
		Message:        res.Message,
		Stats:          res.Stats,
	}
}
