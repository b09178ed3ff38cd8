package pets

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type PetRepo interface {
	Create(dbc dbctx.Context, pets []*types.Pet) ([]*types.Pet, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Pet, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type petRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPetRepo(db *gorm.DB, baseLog *logger.Logger) PetRepo {
	return &petRepo{
		db:  db,
		log: baseLog.With("repo", "PetRepo"),
	}
}

func (r *petRepo) Create(dbc dbctx.Context, pets []*types.Pet) ([]*types.Pet, error) {
	if len(pets) == 0 {
		return []*types.Pet{}, nil
	}
	if err := dbc.Conn(r.db).Create(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

// GetByID loads the pet with its health concerns and allergies. Returns (nil, nil) when missing.
func (r *petRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Pet, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var pet types.Pet
	err := dbc.Conn(r.db).
		Preload("HealthConcerns").
		Preload("FoodAllergies").
		Preload("OtherAllergies").
		Where("id = ?", id).
		Limit(1).
		Find(&pet).Error
	if err != nil {
		return nil, err
	}
	if pet.ID == uuid.Nil {
		return nil, nil
	}
	return &pet, nil
}

func (r *petRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.Pet{}).
		Where("id = ?", id).
		Updates(updates).Error
}
