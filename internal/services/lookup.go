package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/petfit-backend/internal/data/repos"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

// LookupProvider builds the allergen keyword and harmful term tables for one computation.
type LookupProvider interface {
	Lookup(ctx context.Context) (*scoring.Lookup, error)
}

type repoLookupProvider struct {
	log  *logger.Logger
	repo repos.IngredientConfigRepo
}

// NewLookupProvider reads the curated tables from the database. A nil repo serves the embedded defaults.
func NewLookupProvider(log *logger.Logger, repo repos.IngredientConfigRepo) LookupProvider {
	return &repoLookupProvider{log: log.With("service", "LookupProvider"), repo: repo}
}

func (p *repoLookupProvider) Lookup(ctx context.Context) (*scoring.Lookup, error) {
	if p.repo == nil {
		return scoring.DefaultLookup()
	}
	dbc := dbctx.New(ctx)
	harmful, err := p.repo.ListActiveHarmful(dbc)
	if err != nil {
		return nil, fmt.Errorf("list harmful ingredients: %w", err)
	}
	keywords, err := p.repo.ListActiveAllergenKeywords(dbc)
	if err != nil {
		return nil, fmt.Errorf("list allergen keywords: %w", err)
	}

	terms := make([]string, 0, len(harmful))
	for _, h := range harmful {
		if n := strings.TrimSpace(h.Name); n != "" {
			terms = append(terms, n)
		}
	}
	byCode := make(map[string][]string)
	for _, k := range keywords {
		code := strings.ToUpper(strings.TrimSpace(k.AllergenCode))
		kw := strings.TrimSpace(k.Keyword)
		if code == "" || kw == "" {
			continue
		}
		byCode[code] = append(byCode[code], kw)
	}
	if len(terms) == 0 || len(byCode) == 0 {
		p.log.Debug("ingredient config incomplete, using defaults", "harmful", len(terms), "allergen_codes", len(byCode))
	}
	return scoring.NewLookup(byCode, terms)
}
