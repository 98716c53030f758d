package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/samstark/writecoach-backend/internal/types"
)

func autoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.UserProgress{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
