package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/tariff"
	"gorm.io/gorm"
)

// GormConfigurationRepository implements ConfigurationRepository using GORM
type GormConfigurationRepository struct {
	db *gorm.DB
}

// NewGormConfigurationRepository creates a new GormConfigurationRepository
func NewGormConfigurationRepository(db *gorm.DB) *GormConfigurationRepository {
	return &GormConfigurationRepository{db: db}
}

// FindByID finds a configuration version by ID
func (r *GormConfigurationRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.Configuration, error) {
	var config tariff.Configuration
	if err := r.db.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// FindActive returns the currently active configuration, or nil if none
// exists. Ordered by creation time so the newest version wins if rows
// are ever left inconsistently active.
func (r *GormConfigurationRepository) FindActive(ctx context.Context) (*tariff.Configuration, error) {
	var config tariff.Configuration
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// FindAll returns every configuration version, newest first
func (r *GormConfigurationRepository) FindAll(ctx context.Context) ([]tariff.Configuration, error) {
	var configs []tariff.Configuration
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Rotate deactivates every stored version and inserts the given
// configuration as the new active one, atomically
func (r *GormConfigurationRepository) Rotate(ctx context.Context, config *tariff.Configuration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tariff.Configuration{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(config).Error
	})
}

// Ensure GormConfigurationRepository implements the interface
var _ tariff.ConfigurationRepository = (*GormConfigurationRepository)(nil)
