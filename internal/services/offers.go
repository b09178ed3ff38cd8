package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/petfit-backend/internal/data/repos"
	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
)

type OfferQuote struct {
	PricePerKg *float64
	Merchant   string
}

// OfferProvider resolves the price per kg used for price preferences.
type OfferProvider interface {
	Quotes(ctx context.Context, products []*types.Product) (map[uuid.UUID]OfferQuote, error)
}

type repoOfferProvider struct {
	offers repos.ProductOfferRepo
}

func NewOfferProvider(offers repos.ProductOfferRepo) OfferProvider {
	return &repoOfferProvider{offers: offers}
}

// Quotes prefers the primary active offer, else the first active one. The price is the offer price
// over the package size. Products without a usable offer fall back to their stored price_per_kg.
func (p *repoOfferProvider) Quotes(ctx context.Context, products []*types.Product) (map[uuid.UUID]OfferQuote, error) {
	out := make(map[uuid.UUID]OfferQuote, len(products))
	if len(products) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(products))
	for _, prod := range products {
		ids = append(ids, prod.ID)
	}
	rows, err := p.offers.ListActiveByProductIDs(dbctx.New(ctx), ids)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	chosen := make(map[uuid.UUID]*types.ProductOffer, len(rows))
	for _, o := range rows {
		if _, ok := chosen[o.ProductID]; !ok {
			chosen[o.ProductID] = o
		}
	}
	for _, prod := range products {
		out[prod.ID] = quoteFor(prod, chosen[prod.ID])
	}
	return out, nil
}

func quoteFor(prod *types.Product, offer *types.ProductOffer) OfferQuote {
	q := OfferQuote{PricePerKg: prod.PricePerKg}
	if offer == nil {
		return q
	}
	q.Merchant = offer.Merchant
	if offer.CurrentPrice == nil || *offer.CurrentPrice <= 0 {
		return q
	}
	if kg, ok := prod.PackageKg(); ok {
		v := float64(*offer.CurrentPrice) / kg
		q.PricePerKg = &v
	}
	return q
}
