package notification

import (
	"strings"

	"github.com/waterworks/backend/internal/domain/shared"
)

// AlertSettings controls which SMS alerts go out and with which gateway
// credentials. Versioned append-only like rate configurations.
type AlertSettings struct {
	shared.BaseEntity
	AllowSMSAlerts     bool `gorm:"not null;default:false"`
	AllowReadingAlerts bool `gorm:"not null;default:false"`
	AllowBillingAlerts bool `gorm:"not null;default:false"`
	AllowPaymentAlerts bool `gorm:"not null;default:false"`
	MessageHeader      string
	APIKey             string
	Token              string
	Sender             string
	Active             bool `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (AlertSettings) TableName() string {
	return "alert_settings"
}

// NewAlertSettings creates an active settings version
func NewAlertSettings(allowSMS, allowReading, allowBilling, allowPayment bool, header, apiKey, token, sender string) (*AlertSettings, error) {
	if allowSMS && (strings.TrimSpace(apiKey) == "" || strings.TrimSpace(token) == "") {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Gateway credentials are required when SMS alerts are enabled")
	}

	return &AlertSettings{
		BaseEntity:         shared.NewBaseEntity(),
		AllowSMSAlerts:     allowSMS,
		AllowReadingAlerts: allowReading,
		AllowBillingAlerts: allowBilling,
		AllowPaymentAlerts: allowPayment,
		MessageHeader:      strings.TrimSpace(header),
		APIKey:             strings.TrimSpace(apiKey),
		Token:              strings.TrimSpace(token),
		Sender:             strings.TrimSpace(sender),
		Active:             true,
	}, nil
}

// AlertKind identifies the event an alert announces
type AlertKind string

const (
	AlertKindReading AlertKind = "READING"
	AlertKindBilling AlertKind = "BILLING"
	AlertKindPayment AlertKind = "PAYMENT"
)

// Allows reports whether the settings permit the given alert kind. The
// master switch gates every kind.
func (s *AlertSettings) Allows(kind AlertKind) bool {
	if !s.AllowSMSAlerts {
		return false
	}
	switch kind {
	case AlertKindReading:
		return s.AllowReadingAlerts
	case AlertKindBilling:
		return s.AllowBillingAlerts
	case AlertKindPayment:
		return s.AllowPaymentAlerts
	}
	return false
}

// Equals reports whether another settings version carries the same values
func (s *AlertSettings) Equals(other *AlertSettings) bool {
	if other == nil {
		return false
	}
	return s.AllowSMSAlerts == other.AllowSMSAlerts &&
		s.AllowReadingAlerts == other.AllowReadingAlerts &&
		s.AllowBillingAlerts == other.AllowBillingAlerts &&
		s.AllowPaymentAlerts == other.AllowPaymentAlerts &&
		s.MessageHeader == other.MessageHeader &&
		s.APIKey == other.APIKey &&
		s.Token == other.Token &&
		s.Sender == other.Sender
}

// Deactivate marks the settings version as superseded
func (s *AlertSettings) Deactivate() {
	s.Active = false
}
