package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/observability"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

const (
	MessageNoSpecies = "no candidates for this species"
	MessageNoSafe    = "no candidates pass safety screening"
	MessageNoPrice   = "no candidates within price bound"
	MessageNoResults = "no suitable candidates found"
)

// Evaluator scores one candidate. *scoring.Scorer satisfies it.
type Evaluator interface {
	Evaluate(subj *scoring.Subject, cand *scoring.Candidate, prefs scoring.Prefs) scoring.Evaluation
}

type ScoredCandidate struct {
	Candidate  *scoring.Candidate
	Safety     float64
	Fitness    float64
	AgePenalty float64
	Total      float64
	Reasons    []string
	Breakdown  scoring.Breakdown
}

type FilterStats struct {
	Total              int `json:"total"`
	Passed             int `json:"passed"`
	ParsedNone         int `json:"parsed_none"`
	SafetyFiltered     int `json:"safety_filtered"`
	FitnessFiltered    int `json:"fitness_filtered"`
	TotalScoreFiltered int `json:"total_score_filtered"`
	PriceFiltered      int `json:"price_filtered"`
	ScoringError       int `json:"scoring_error"`
}

func (s *FilterStats) record(o scoring.Outcome) {
	switch o {
	case scoring.OutcomeRanked:
		s.Passed++
	case scoring.OutcomeParsedNone:
		s.ParsedNone++
	case scoring.OutcomeSafetyFiltered:
		s.SafetyFiltered++
	case scoring.OutcomeFitnessFiltered:
		s.FitnessFiltered++
	case scoring.OutcomeTotalFiltered:
		s.TotalScoreFiltered++
	case scoring.OutcomePriceFiltered:
		s.PriceFiltered++
	}
}

// AddSpeciesExcluded folds in candidates a species pre-filter dropped before ranking, so they count
// toward Total and the species bucket of Message.
func (s *FilterStats) AddSpeciesExcluded(n int) {
	if n <= 0 {
		return
	}
	s.Total += n
	s.FitnessFiltered += n
}

// Message explains an empty result by its dominant exclusion. Ties resolve species, safety, price.
func (s FilterStats) Message() string {
	if s.Passed > 0 {
		return ""
	}
	type bucket struct {
		n   int
		msg string
	}
	buckets := []bucket{
		{s.FitnessFiltered, MessageNoSpecies},
		{s.SafetyFiltered, MessageNoSafe},
		{s.PriceFiltered, MessageNoPrice},
	}
	others := s.ParsedNone + s.TotalScoreFiltered + s.ScoringError
	best := bucket{}
	for _, b := range buckets {
		if b.n > best.n {
			best = b
		}
	}
	if best.n == 0 || best.n < others {
		return MessageNoResults
	}
	return best.msg
}

type Pipeline struct {
	log  *logger.Logger
	eval Evaluator
}

func NewPipeline(log *logger.Logger, eval Evaluator) *Pipeline {
	return &Pipeline{log: log.With("module", "RankingPipeline"), eval: eval}
}

// Rank scores every candidate, drops the excluded ones and orders the rest. limit <= 0 keeps all.
// A failure on one candidate is counted and skipped.
func (p *Pipeline) Rank(ctx context.Context, subj *scoring.Subject, cands []*scoring.Candidate, prefs scoring.Prefs, limit int) ([]ScoredCandidate, FilterStats) {
	stats := FilterStats{Total: len(cands)}
	out := make([]ScoredCandidate, 0, len(cands))

	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			p.log.Warn("ranking interrupted", "pet_id", subj.ID, "scored", len(out), "error", err)
			break
		}
		ev, err := p.evaluate(subj, cand, prefs)
		if err != nil {
			stats.ScoringError++
			observability.ScoringErrors.Inc()
			p.log.Warn("candidate scoring failed", "pet_id", subj.ID, "error", err)
			continue
		}
		stats.record(ev.Outcome)
		observability.FilterOutcomes.WithLabelValues(ev.Outcome.String()).Inc()
		if ev.Outcome != scoring.OutcomeRanked {
			continue
		}
		out = append(out, ScoredCandidate{
			Candidate:  cand,
			Safety:     ev.Safety.Score,
			Fitness:    ev.Fitness.Score,
			AgePenalty: ev.Fitness.AgePenalty,
			Total:      ev.Total(),
			Reasons:    ev.Reasons(),
			Breakdown:  ev.Breakdown(),
		})
	}

	Sort(out, prefs.Sort)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, stats
}

func (p *Pipeline) evaluate(subj *scoring.Subject, cand *scoring.Candidate, prefs scoring.Prefs) (ev scoring.Evaluation, err error) {
	if cand == nil {
		return ev, fmt.Errorf("nil candidate")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic scoring %s: %v", cand.ID, r)
		}
	}()
	ev = p.eval.Evaluate(subj, cand, prefs)
	if t := ev.Total(); ev.Outcome == scoring.OutcomeRanked && t < 0 {
		return ev, fmt.Errorf("candidate %s ranked with negative total %v", cand.ID, t)
	}
	return ev, nil
}

// Sort orders by total desc, then safety desc or price asc (unknown last), then candidate id.
func Sort(items []ScoredCandidate, pref scoring.SortPreference) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if pref == scoring.SortPriceAsc {
			ap, bp := a.Candidate.PricePerKg, b.Candidate.PricePerKg
			switch {
			case ap != nil && bp != nil && *ap != *bp:
				return *ap < *bp
			case ap != nil && bp == nil:
				return true
			case ap == nil && bp != nil:
				return false
			}
		} else if a.Safety != b.Safety {
			return a.Safety > b.Safety
		}
		return strings.Compare(a.Candidate.ID.String(), b.Candidate.ID.String()) < 0
	})
}
