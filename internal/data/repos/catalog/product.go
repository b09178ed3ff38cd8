package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type ProductRepo interface {
	Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Product, error)
	// ListActiveCandidates returns active products eligible for species (or all species),
	// with ingredient profile and nutrition facts attached, and how many active products the
	// species filter left out.
	ListActiveCandidates(dbc dbctx.Context, species string) ([]*types.Product, int, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{
		db:  db,
		log: baseLog.With("repo", "ProductRepo"),
	}
}

func (r *productRepo) Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error) {
	if len(products) == 0 {
		return []*types.Product{}, nil
	}
	if err := dbc.Conn(r.db).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var product types.Product
	err := dbc.Conn(r.db).
		Preload("IngredientProfile").
		Preload("NutritionFacts").
		Where("id = ?", id).
		Limit(1).
		Find(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == uuid.Nil {
		return nil, nil
	}
	return &product, nil
}

func (r *productRepo) ListActiveCandidates(dbc dbctx.Context, species string) ([]*types.Product, int, error) {
	var out []*types.Product
	conn := dbc.Conn(r.db)
	q := conn.
		Preload("IngredientProfile").
		Preload("NutritionFacts").
		Where("is_active = ?", true)
	s := strings.ToUpper(strings.TrimSpace(species))
	if s != "" {
		q = q.Where("species IS NULL OR species = ?", s)
	}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	if s == "" {
		return out, 0, nil
	}
	var excluded int64
	err := conn.Model(&types.Product{}).
		Where("is_active = ? AND species IS NOT NULL AND species <> ?", true, s).
		Count(&excluded).Error
	if err != nil {
		return nil, 0, err
	}
	return out, int(excluded), nil
}
