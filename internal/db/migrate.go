package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusmarket/internal/model"
)

func tables() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Listing{},
		&model.AccountInfo{},
	}
}

// Migrate creates or updates every table. With reset set, existing tables are
// dropped first.
func Migrate(gormDB *gorm.DB, reset bool, log *zap.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for _, table := range tables() {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}
	if err := gormDB.AutoMigrate(tables()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
