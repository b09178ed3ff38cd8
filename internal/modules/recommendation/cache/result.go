package cache

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/ranking"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
)

type Item struct {
	ProductID   uuid.UUID         `json:"product_id"`
	Rank        int               `json:"rank"`
	BrandName   string            `json:"brand_name"`
	ProductName string            `json:"product_name"`
	Total       float64           `json:"match_score"`
	Safety      float64           `json:"safety_score"`
	Fitness     float64           `json:"fitness_score"`
	AgePenalty  float64           `json:"age_penalty"`
	Reasons     []string          `json:"match_reasons"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	PricePerKg  *float64          `json:"price_per_kg,omitempty"`
	Merchant    string            `json:"merchant,omitempty"`
	Explanation *string           `json:"explanation,omitempty"`
}

// Result is one ranked list as stored in both tiers.
type Result struct {
	PetID      uuid.UUID           `json:"pet_id"`
	RunID      uuid.UUID           `json:"run_id,omitempty"`
	Strategy   string              `json:"strategy"`
	Items      []Item              `json:"items"`
	Message    string              `json:"message,omitempty"`
	Stats      ranking.FilterStats `json:"filter_stats"`
	Prefs      *types.RecoPrefs    `json:"prefs,omitempty"`
	ComputedAt time.Time           `json:"computed_at"`
}

type meta struct {
	RunID      uuid.UUID `json:"run_id,omitempty"`
	Strategy   string    `json:"strategy"`
	ItemCount  int       `json:"item_count"`
	ComputedAt time.Time `json:"computed_at"`
}

type tags struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// itemDetail is the run item breakdown column: everything but the rank, score and reasons.
type itemDetail struct {
	Breakdown   scoring.Breakdown `json:"breakdown"`
	Safety      float64           `json:"safety_score"`
	Fitness     float64           `json:"fitness_score"`
	AgePenalty  float64           `json:"age_penalty"`
	BrandName   string            `json:"brand_name"`
	ProductName string            `json:"product_name"`
	PricePerKg  *float64          `json:"price_per_kg,omitempty"`
	Merchant    string            `json:"merchant,omitempty"`
	Explanation *string           `json:"explanation,omitempty"`
}

// runContext is the run context_snapshot column.
type runContext struct {
	Message string              `json:"message,omitempty"`
	Stats   ranking.FilterStats `json:"filter_stats"`
}

// ItemFromScored converts a ranked candidate at 1-based rank.
func ItemFromScored(sc ranking.ScoredCandidate, rank int) Item {
	c := sc.Candidate
	return Item{
		ProductID:   c.ID,
		Rank:        rank,
		BrandName:   c.BrandName,
		ProductName: c.ProductName,
		Total:       sc.Total,
		Safety:      sc.Safety,
		Fitness:     sc.Fitness,
		AgePenalty:  sc.AgePenalty,
		Reasons:     sc.Reasons,
		Breakdown:   sc.Breakdown,
		PricePerKg:  c.PricePerKg,
		Merchant:    c.Merchant,
	}
}

// Truncated returns a shallow copy holding at most n items. n <= 0 keeps all.
func (r *Result) Truncated(n int) *Result {
	if r == nil {
		return nil
	}
	cp := *r
	if n > 0 && len(cp.Items) > n {
		cp.Items = cp.Items[:n]
	}
	return &cp
}

func (r *Result) productIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.ProductID)
	}
	return out
}
