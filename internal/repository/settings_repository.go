package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailtrack/backend/internal/models"
	"gorm.io/gorm"
)

// SettingsRepository defines the interface for the singleton settings row.
// Seed runs once at process start; Get and Update never create the row
// implicitly.
type SettingsRepository interface {
	Seed(ctx context.Context) error
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, settings *models.Settings) error
}

// settingsRepository implements SettingsRepository using GORM
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository instance
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Seed inserts the default settings row if none exists yet
func (r *settingsRepository) Seed(ctx context.Context) error {
	var existing models.Settings
	err := r.db.WithContext(ctx).First(&existing, models.SettingsID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check settings: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// Get retrieves the singleton settings row
func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	result := r.db.WithContext(ctx).First(&settings, models.SettingsID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", result.Error)
	}
	return &settings, nil
}

// Update overwrites the threshold values of the singleton row
func (r *settingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	result := r.db.WithContext(ctx).Model(&models.Settings{}).Where("id = ?", models.SettingsID).Updates(map[string]interface{}{
		"t_white_minutes":  settings.TWhiteMinutes,
		"t_blue_minutes":   settings.TBlueMinutes,
		"t_yellow_minutes": settings.TYellowMinutes,
		"t_red_minutes":    settings.TRedMinutes,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update settings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	settings.ID = models.SettingsID
	return nil
}
