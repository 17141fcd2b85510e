package repository

import (
	"fmt"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"gorm.io/gorm"
)

// Migrate installs the extensions the schema relies on and migrates both tables.
func Migrate(db *gorm.DB) error {
	for _, ext := range []string{"pgcrypto", "vector"} {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS " + ext).Error; err != nil {
			return fmt.Errorf("create extension %s: %w", ext, err)
		}
	}
	if err := db.AutoMigrate(&model.JobDescription{}, &model.Candidate{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
