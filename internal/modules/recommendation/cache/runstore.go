package cache

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/data/repos"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
)

type repoRunStore struct {
	repo repos.RecommendationRunRepo
}

// NewRepoRunStore exposes the run history repo as the durable tier.
func NewRepoRunStore(repo repos.RecommendationRunRepo) RunStore {
	return &repoRunStore{repo: repo}
}

func (s *repoRunStore) CreateRun(ctx context.Context, run *types.RecommendationRun, items []*types.RecommendationRunItem) error {
	return s.repo.CreateRun(dbctx.New(ctx), run, items)
}

func (s *repoRunStore) LatestRun(ctx context.Context, petID uuid.UUID) (*types.RecommendationRun, error) {
	return s.repo.LatestByPet(dbctx.New(ctx), petID)
}

func (s *repoRunStore) ItemsForRun(ctx context.Context, runID uuid.UUID, limit int) ([]*types.RecommendationRunItem, error) {
	return s.repo.ItemsForRun(dbctx.New(ctx), runID, limit)
}
