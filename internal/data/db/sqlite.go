package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

// OpenSQLite opens a local database for development and tests. dsn may be a file path or a
// "file:...?mode=memory" URI.
func OpenSQLite(logg *logger.Logger, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if logg != nil {
		logg.With("service", "SQLite").Info("Opened SQLite database", "dsn", dsn)
	}
	return db, nil
}
