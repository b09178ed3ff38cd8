package ranking

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

// fakeEvaluator returns a scripted evaluation keyed by product name.
type fakeEvaluator struct {
	byName map[string]scoring.Evaluation
}

func (f *fakeEvaluator) Evaluate(_ *scoring.Subject, cand *scoring.Candidate, _ scoring.Prefs) scoring.Evaluation {
	if cand.ProductName == "boom" {
		panic("bad data")
	}
	ev := f.byName[cand.ProductName]
	ev.Candidate = cand
	return ev
}

func ranked(total, safety float64) scoring.Evaluation {
	return scoring.Evaluation{
		Outcome:  scoring.OutcomeRanked,
		Safety:   scoring.SafetyResult{Score: safety, Reasons: []string{"safe"}},
		Fitness:  scoring.FitnessResult{Score: 50, Reasons: []string{"fit"}},
		Combined: scoring.CombineResult{Total: total},
	}
}

func filtered(o scoring.Outcome) scoring.Evaluation {
	return scoring.Evaluation{Outcome: o}
}

func cand(name string, price *float64) *scoring.Candidate {
	return &scoring.Candidate{ID: uuid.New(), ProductName: name, PricePerKg: price, Parsed: true}
}

func ptr(v float64) *float64 { return &v }

func TestRankOrdersAndCounts(t *testing.T) {
	eval := &fakeEvaluator{byName: map[string]scoring.Evaluation{
		"a":       ranked(70, 60),
		"b":       ranked(80, 50),
		"c":       ranked(70, 90),
		"unsafe":  filtered(scoring.OutcomeSafetyFiltered),
		"cat":     filtered(scoring.OutcomeFitnessFiltered),
		"pricey":  filtered(scoring.OutcomePriceFiltered),
		"raw":     filtered(scoring.OutcomeParsedNone),
		"too-low": filtered(scoring.OutcomeTotalFiltered),
	}}
	p := NewPipeline(logger.Nop(), eval)
	cands := []*scoring.Candidate{
		cand("a", nil), cand("b", nil), cand("c", nil), cand("unsafe", nil), cand("cat", nil),
		cand("pricey", nil), cand("raw", nil), cand("too-low", nil), cand("boom", nil), nil,
	}

	items, stats := p.Rank(context.Background(), &scoring.Subject{}, cands, scoring.Prefs{}, 0)
	if len(items) != 3 {
		t.Fatalf("want=3 got=%d", len(items))
	}
	order := []string{items[0].Candidate.ProductName, items[1].Candidate.ProductName, items[2].Candidate.ProductName}
	if order[0] != "b" || order[1] != "c" || order[2] != "a" {
		t.Fatalf("want=[b c a] got=%v", order)
	}
	want := FilterStats{Total: 10, Passed: 3, ParsedNone: 1, SafetyFiltered: 1, FitnessFiltered: 1, TotalScoreFiltered: 1, PriceFiltered: 1, ScoringError: 2}
	if stats != want {
		t.Fatalf("want=%+v got=%+v", want, stats)
	}
	if len(items[0].Reasons) != 2 {
		t.Fatalf("reasons should merge safety and fitness, got=%v", items[0].Reasons)
	}
	if stats.Message() != "" {
		t.Fatalf("non-empty result has no message, got=%q", stats.Message())
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	eval := &fakeEvaluator{byName: map[string]scoring.Evaluation{"x": ranked(50, 50)}}
	p := NewPipeline(logger.Nop(), eval)
	cands := make([]*scoring.Candidate, 0, 12)
	for i := 0; i < 12; i++ {
		cands = append(cands, cand("x", nil))
	}
	items, stats := p.Rank(context.Background(), &scoring.Subject{}, cands, scoring.Prefs{}, 3)
	if len(items) != 3 || stats.Passed != 12 {
		t.Fatalf("want 3 items of 12 passed, got=%d/%d", len(items), stats.Passed)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Candidate.ID.String() > items[i].Candidate.ID.String() {
			t.Fatalf("ties must break on candidate id")
		}
	}
}

func TestRankPriceAscending(t *testing.T) {
	eval := &fakeEvaluator{byName: map[string]scoring.Evaluation{
		"cheap":   ranked(60, 40),
		"dear":    ranked(60, 90),
		"unknown": ranked(60, 95),
		"best":    ranked(75, 10),
	}}
	p := NewPipeline(logger.Nop(), eval)
	cands := []*scoring.Candidate{cand("unknown", nil), cand("dear", ptr(30000)), cand("cheap", ptr(12000)), cand("best", ptr(50000))}

	items, _ := p.Rank(context.Background(), &scoring.Subject{}, cands, scoring.Prefs{Sort: scoring.SortPriceAsc}, 0)
	got := []string{}
	for _, it := range items {
		got = append(got, it.Candidate.ProductName)
	}
	want := []string{"best", "cheap", "dear", "unknown"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want=%v got=%v", want, got)
		}
	}

	items, _ = p.Rank(context.Background(), &scoring.Subject{}, cands, scoring.Prefs{}, 0)
	if items[1].Candidate.ProductName != "unknown" {
		t.Fatalf("default sort breaks ties on safety, got=%s", items[1].Candidate.ProductName)
	}
}

func TestEmptyResultMessages(t *testing.T) {
	cases := []struct {
		stats FilterStats
		want  string
	}{
		{FilterStats{Total: 4, FitnessFiltered: 4}, MessageNoSpecies},
		{FilterStats{Total: 4, SafetyFiltered: 3, FitnessFiltered: 1}, MessageNoSafe},
		{FilterStats{Total: 2, PriceFiltered: 2}, MessageNoPrice},
		{FilterStats{Total: 5, ParsedNone: 4, PriceFiltered: 1}, MessageNoResults},
		{FilterStats{}, MessageNoResults},
	}
	for _, tc := range cases {
		if got := tc.stats.Message(); got != tc.want {
			t.Fatalf("stats=%+v want=%q got=%q", tc.stats, tc.want, got)
		}
	}
}

func TestRankWithRealScorerSpeciesOnly(t *testing.T) {
	lookup, err := scoring.DefaultLookup()
	if err != nil {
		t.Fatalf("DefaultLookup: %v", err)
	}
	p := NewPipeline(logger.Nop(), scoring.NewScorer(lookup))
	subj := &scoring.Subject{ID: uuid.New(), Species: scoring.SpeciesDog, AgeStage: scoring.AgeAdult, WeightKg: 10}
	cands := []*scoring.Candidate{
		{ID: uuid.New(), Species: scoring.SpeciesCat, Parsed: true, QualityScore: 90},
		{ID: uuid.New(), Species: scoring.SpeciesCat, Parsed: true, QualityScore: 40},
	}
	items, stats := p.Rank(context.Background(), subj, cands, scoring.Prefs{}, 10)
	if len(items) != 0 || stats.Message() != MessageNoSpecies {
		t.Fatalf("want species message, got items=%d msg=%q", len(items), stats.Message())
	}
}

func TestRankStopsOnCanceledContext(t *testing.T) {
	eval := &fakeEvaluator{byName: map[string]scoring.Evaluation{"x": ranked(50, 50)}}
	p := NewPipeline(logger.Nop(), eval)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items, stats := p.Rank(ctx, &scoring.Subject{}, []*scoring.Candidate{cand("x", nil)}, scoring.Prefs{}, 0)
	if len(items) != 0 || stats.Total != 1 || stats.Passed != 0 {
		t.Fatalf("canceled ranking should score nothing, got=%d %+v", len(items), stats)
	}
}

func TestAddSpeciesExcludedDrivesMessage(t *testing.T) {
	p := NewPipeline(logger.Nop(), &fakeEvaluator{})
	subj := &scoring.Subject{ID: uuid.New(), Species: scoring.SpeciesDog}
	items, stats := p.Rank(context.Background(), subj, nil, scoring.Prefs{}, 10)
	stats.AddSpeciesExcluded(3)
	if len(items) != 0 || stats.Total != 3 || stats.FitnessFiltered != 3 {
		t.Fatalf("want total=3 fitness_filtered=3 got=%+v", stats)
	}
	if got := stats.Message(); got != MessageNoSpecies {
		t.Fatalf("want=%q got=%q", MessageNoSpecies, got)
	}
	stats.AddSpeciesExcluded(-1)
	if stats.Total != 3 {
		t.Fatalf("negative counts must be ignored, got total=%d", stats.Total)
	}
}
