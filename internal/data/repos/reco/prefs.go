package reco

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type UserRecoPrefsRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserRecoPrefs, error)
	Upsert(dbc dbctx.Context, row *types.UserRecoPrefs) error
}

type userRecoPrefsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRecoPrefsRepo(db *gorm.DB, baseLog *logger.Logger) UserRecoPrefsRepo {
	return &userRecoPrefsRepo{
		db:  db,
		log: baseLog.With("repo", "UserRecoPrefsRepo"),
	}
}

// GetByUserID returns (nil, nil) when the owner never saved preferences.
func (r *userRecoPrefsRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserRecoPrefs, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserRecoPrefs
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userRecoPrefsRepo) Upsert(dbc dbctx.Context, row *types.UserRecoPrefs) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"prefs", "updated_at"}),
		}).
		Create(row).Error
}
