package tariff

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/application/audit"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/domain/tariff"
)

// Service manages the versioned rate configuration
type Service struct {
	configRepo tariff.ConfigurationRepository
	recorder   *audit.Recorder
}

// NewService creates a new tariff Service
func NewService(configRepo tariff.ConfigurationRepository, recorder *audit.Recorder) *Service {
	return &Service{configRepo: configRepo, recorder: recorder}
}

// UpdateRequest carries the new rate values
type UpdateRequest struct {
	RatePerCubicMeter  decimal.Decimal
	MinimumConsumption int
	MinimumCharge      decimal.Decimal
	VATRate            decimal.Decimal
	PenaltyRate        decimal.Decimal
}

// GetActive returns the active configuration
func (s *Service) GetActive(ctx context.Context) (*tariff.Configuration, error) {
	config, err := s.configRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active configuration: %w", err)
	}
	if config == nil {
		return nil, shared.ErrNoActiveConfig
	}
	return config, nil
}

// Update replaces the active configuration with a new version. Existing
// billings keep their snapshotted rates. When every value matches the
// current active version no write happens.
func (s *Service) Update(ctx context.Context, req UpdateRequest, actor string) (*tariff.Configuration, error) {
	next, err := tariff.NewConfiguration(
		req.RatePerCubicMeter,
		req.MinimumConsumption,
		req.MinimumCharge,
		req.VATRate,
		req.PenaltyRate,
	)
	if err != nil {
		return nil, err
	}

	current, err := s.configRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active configuration: %w", err)
	}
	if current != nil && current.Equals(next) {
		return nil, shared.ErrNoChanges
	}

	if err := s.configRepo.Rotate(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to rotate configuration: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionUpdate,
		fmt.Sprintf("Updated rate configuration: rate=%s min_charge=%s", next.RatePerCubicMeter, next.MinimumCharge),
		actor)
	return next, nil
}

// History returns every configuration version, newest first
func (s *Service) History(ctx context.Context) ([]tariff.Configuration, error) {
	return s.configRepo.FindAll(ctx)
}
