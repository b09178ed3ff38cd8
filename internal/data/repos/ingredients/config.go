package ingredients

import (
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type IngredientConfigRepo interface {
	ListActiveHarmful(dbc dbctx.Context) ([]*types.HarmfulIngredient, error)
	ListActiveAllergenKeywords(dbc dbctx.Context) ([]*types.AllergenKeyword, error)
	CreateHarmful(dbc dbctx.Context, rows []*types.HarmfulIngredient) error
	CreateAllergenKeywords(dbc dbctx.Context, rows []*types.AllergenKeyword) error
}

type ingredientConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientConfigRepo(db *gorm.DB, baseLog *logger.Logger) IngredientConfigRepo {
	return &ingredientConfigRepo{
		db:  db,
		log: baseLog.With("repo", "IngredientConfigRepo"),
	}
}

func (r *ingredientConfigRepo) ListActiveHarmful(dbc dbctx.Context) ([]*types.HarmfulIngredient, error) {
	var out []*types.HarmfulIngredient
	if err := dbc.Conn(r.db).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientConfigRepo) ListActiveAllergenKeywords(dbc dbctx.Context) ([]*types.AllergenKeyword, error) {
	var out []*types.AllergenKeyword
	if err := dbc.Conn(r.db).
		Where("is_active = ?", true).
		Order("allergen_code ASC").
		Order("keyword ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientConfigRepo) CreateHarmful(dbc dbctx.Context, rows []*types.HarmfulIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&rows).Error
}

func (r *ingredientConfigRepo) CreateAllergenKeywords(dbc dbctx.Context, rows []*types.AllergenKeyword) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&rows).Error
}
