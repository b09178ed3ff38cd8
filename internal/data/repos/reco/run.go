package reco

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type RecommendationRunRepo interface {
	// CreateRun writes the run and all of its items in one transaction.
	CreateRun(dbc dbctx.Context, run *types.RecommendationRun, items []*types.RecommendationRunItem) error
	LatestByPet(dbc dbctx.Context, petID uuid.UUID) (*types.RecommendationRun, error)
	ItemsForRun(dbc dbctx.Context, runID uuid.UUID, limit int) ([]*types.RecommendationRunItem, error)
}

type recommendationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRunRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRunRepo {
	return &recommendationRunRepo{
		db:  db,
		log: baseLog.With("repo", "RecommendationRunRepo"),
	}
}

func (r *recommendationRunRepo) CreateRun(dbc dbctx.Context, run *types.RecommendationRun, items []*types.RecommendationRunItem) error {
	if run == nil || run.PetID == uuid.Nil {
		return fmt.Errorf("run with pet id required")
	}
	return dbc.Conn(r.db).Transaction(func(txx *gorm.DB) error {
		if err := txx.Create(run).Error; err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		for i, it := range items {
			it.RunID = run.ID
			if it.Rank <= 0 {
				it.Rank = i + 1
			}
		}
		if err := txx.Create(&items).Error; err != nil {
			return fmt.Errorf("create run items: %w", err)
		}
		return nil
	})
}

func (r *recommendationRunRepo) LatestByPet(dbc dbctx.Context, petID uuid.UUID) (*types.RecommendationRun, error) {
	if petID == uuid.Nil {
		return nil, nil
	}
	var run types.RecommendationRun
	err := dbc.Conn(r.db).
		Where("pet_id = ?", petID).
		Order("created_at DESC").
		Limit(1).
		Find(&run).Error
	if err != nil {
		return nil, err
	}
	if run.ID == uuid.Nil {
		return nil, nil
	}
	return &run, nil
}

func (r *recommendationRunRepo) ItemsForRun(dbc dbctx.Context, runID uuid.UUID, limit int) ([]*types.RecommendationRunItem, error) {
	var out []*types.RecommendationRunItem
	if runID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("run_id = ?", runID).
		Order("rank ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
