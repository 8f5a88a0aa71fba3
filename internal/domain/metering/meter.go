package metering

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Meter represents a physical water meter installed for an account.
// FirstValue is the register value at installation; the first reading is
// validated against it.
type Meter struct {
	shared.BaseEntity
	MeterNumber      string          `gorm:"uniqueIndex;not null"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	FirstValue       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InstallationDate time.Time       `gorm:"not null"`
	Active           bool            `gorm:"not null;default:true"`
	Deleted          bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Meter) TableName() string {
	return "meters"
}

// NewMeter creates a validated meter
func NewMeter(meterNumber string, accountID uuid.UUID, firstValue decimal.Decimal, installationDate time.Time) (*Meter, error) {
	meterNumber = strings.TrimSpace(meterNumber)
	if meterNumber == "" {
		return nil, shared.NewDomainError("INVALID_METER_NUMBER", "Meter number is required")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Meter must belong to an account")
	}
	if firstValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FIRST_VALUE", "First value cannot be negative")
	}
	if installationDate.IsZero() {
		installationDate = time.Now()
	}

	return &Meter{
		BaseEntity:       shared.NewBaseEntity(),
		MeterNumber:      meterNumber,
		AccountID:        accountID,
		FirstValue:       firstValue,
		InstallationDate: installationDate,
		Active:           true,
	}, nil
}

// MarkDeleted soft-deletes the meter
func (m *Meter) MarkDeleted() {
	m.Deleted = true
	m.Active = false
}
