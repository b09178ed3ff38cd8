package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type ProductOfferRepo interface {
	Create(dbc dbctx.Context, offers []*types.ProductOffer) ([]*types.ProductOffer, error)
	// ListActiveByProductIDs orders primary offers first within each product.
	ListActiveByProductIDs(dbc dbctx.Context, productIDs []uuid.UUID) ([]*types.ProductOffer, error)
}

type productOfferRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductOfferRepo(db *gorm.DB, baseLog *logger.Logger) ProductOfferRepo {
	return &productOfferRepo{
		db:  db,
		log: baseLog.With("repo", "ProductOfferRepo"),
	}
}

func (r *productOfferRepo) Create(dbc dbctx.Context, offers []*types.ProductOffer) ([]*types.ProductOffer, error) {
	if len(offers) == 0 {
		return []*types.ProductOffer{}, nil
	}
	if err := dbc.Conn(r.db).Create(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *productOfferRepo) ListActiveByProductIDs(dbc dbctx.Context, productIDs []uuid.UUID) ([]*types.ProductOffer, error) {
	var out []*types.ProductOffer
	if len(productIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Order("product_id ASC").
		Order("is_primary DESC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
