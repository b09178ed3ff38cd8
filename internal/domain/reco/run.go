package reco

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationRun is written once with its items and never updated.
type RecommendationRun struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PetID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_reco_run_pet_created,priority:1" json:"pet_id"`
	Strategy        string         `gorm:"column:strategy;not null" json:"strategy"`
	ContextSnapshot datatypes.JSON `gorm:"column:context_snapshot" json:"context_snapshot,omitempty"`
	PrefsSnapshot   datatypes.JSON `gorm:"column:prefs_snapshot" json:"prefs_snapshot,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime;index:idx_reco_run_pet_created,priority:2" json:"created_at"`
}

func (RecommendationRun) TableName() string { return "recommendation_runs" }

func (r *RecommendationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RecommendationRunItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reco_item_run_rank,priority:1" json:"run_id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Rank      int            `gorm:"column:rank;not null;uniqueIndex:idx_reco_item_run_rank,priority:2" json:"rank"`
	Score     float64        `gorm:"column:score;not null" json:"score"`
	Reasons   datatypes.JSON `gorm:"column:reasons" json:"reasons,omitempty"`
	Breakdown datatypes.JSON `gorm:"column:breakdown" json:"breakdown,omitempty"`
}

func (RecommendationRunItem) TableName() string { return "recommendation_run_items" }

func (i *RecommendationRunItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
