package notification

import (
	"context"
	"fmt"

	"github.com/waterworks/backend/internal/application/audit"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/domain/shared"
)

// SettingsService manages the versioned alert settings
type SettingsService struct {
	settingsRepo notification.AlertSettingsRepository
	logRepo      notification.SMSLogRepository
	recorder     *audit.Recorder
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingsRepo notification.AlertSettingsRepository,
	logRepo notification.SMSLogRepository,
	recorder *audit.Recorder,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		recorder:     recorder,
	}
}

// UpdateSettingsRequest carries the new alert settings values
type UpdateSettingsRequest struct {
	AllowSMSAlerts     bool
	AllowReadingAlerts bool
	AllowBillingAlerts bool
	AllowPaymentAlerts bool
	MessageHeader      string
	APIKey             string
	Token              string
	Sender             string
}

// GetActive returns the active alert settings, or nil when none were configured yet
func (s *SettingsService) GetActive(ctx context.Context) (*notification.AlertSettings, error) {
	settings, err := s.settingsRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert settings: %w", err)
	}
	return settings, nil
}

// Update replaces the active settings with a new version. When the new
// values match the current active version no write happens.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest, actor string) (*notification.AlertSettings, error) {
	next, err := notification.NewAlertSettings(
		req.AllowSMSAlerts, req.AllowReadingAlerts, req.AllowBillingAlerts, req.AllowPaymentAlerts,
		req.MessageHeader, req.APIKey, req.Token, req.Sender,
	)
	if err != nil {
		return nil, err
	}

	current, err := s.settingsRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert settings: %w", err)
	}
	if current != nil && current.Equals(next) {
		return nil, shared.ErrNoChanges
	}

	if err := s.settingsRepo.Rotate(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to rotate alert settings: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionUpdate, "Updated SMS alert settings", actor)
	return next, nil
}

// ListLogs returns SMS delivery logs, newest first
func (s *SettingsService) ListLogs(ctx context.Context, filter shared.Filter) ([]notification.SMSLog, int64, error) {
	return s.logRepo.FindAll(ctx, filter)
}
