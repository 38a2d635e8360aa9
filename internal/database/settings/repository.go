// Package settings provides database operations for key/value settings.
//
// # Usage
//
//	repo := settings.NewRepository(db.DB)
//	err := repo.SetSettings(ctx, map[string]string{"backup_last_status": "success"})
//	value := repo.GetValue(ctx, "backup_last_status", "")
package settings

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key, or database.ErrNotFound.
func (r *Repository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &setting, nil
}

// GetValue returns the value stored under key, or fallback when the key is
// missing or cannot be read.
func (r *Repository) GetValue(ctx context.Context, key, fallback string) string {
	setting, err := r.GetSetting(ctx, key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	return r.SetSettings(ctx, map[string]string{key: value})
}

// SetSettings creates or updates several settings in one transaction.
func (r *Repository) SetSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			setting := entities.Setting{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&setting).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	return database.Translate(err)
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	return database.Translate(r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.Setting{}).Error)
}
