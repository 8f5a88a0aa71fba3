package metering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Reading domain errors returned during validation. Each maps to a
// distinct API error code so tellers can tell apart a re-encode, a
// late entry, and a register that appears to run backwards.
var (
	ErrDuplicateReading   = shared.NewDomainError("DUPLICATE_READING", "A reading already exists for this meter and billing period")
	ErrStalePeriod        = shared.NewDomainError("STALE_PERIOD", "Billing period is earlier than the latest recorded reading")
	ErrNonIncreasingValue = shared.NewDomainError("NONINCREASING_VALUE", "Reading value must be greater than the previous value")
)

// Reading represents a monthly register reading for a meter
type Reading struct {
	shared.BaseEntity
	MeterID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_readings_meter_period"`
	Value       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Month       int             `gorm:"not null;index:idx_readings_meter_period"`
	Year        int             `gorm:"not null;index:idx_readings_meter_period"`
	ReadingDate time.Time       `gorm:"not null"`
	IsBilled    bool            `gorm:"not null;default:false"`
	Active      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Reading) TableName() string {
	return "readings"
}

// NewReading creates a validated reading for a billing period
func NewReading(meterID uuid.UUID, value decimal.Decimal, month, year int, readingDate time.Time) (*Reading, error) {
	if meterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METER", "Reading must reference a meter")
	}
	if err := validateReadingFields(value, month, year); err != nil {
		return nil, err
	}
	if readingDate.IsZero() {
		readingDate = time.Now()
	}

	return &Reading{
		BaseEntity:  shared.NewBaseEntity(),
		MeterID:     meterID,
		Value:       value,
		Month:       month,
		Year:        year,
		ReadingDate: readingDate,
		Active:      true,
	}, nil
}

// Amend overwrites the register value, billing period, and reading date
// of an existing reading. The reading drops back to unbilled so its
// statement is regenerated.
func (r *Reading) Amend(value decimal.Decimal, month, year int, readingDate time.Time) error {
	if err := validateReadingFields(value, month, year); err != nil {
		return err
	}
	if readingDate.IsZero() {
		readingDate = time.Now()
	}
	r.Value = value
	r.Month = month
	r.Year = year
	r.ReadingDate = readingDate
	r.IsBilled = false
	return nil
}

func validateReadingFields(value decimal.Decimal, month, year int) error {
	if month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 2000 {
		return shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Reading value cannot be negative")
	}
	return nil
}

// PeriodIndex returns a sortable scalar for the billing period
func (r *Reading) PeriodIndex() int {
	return r.Year*12 + (r.Month - 1)
}

// PeriodBefore reports whether the reading's period is strictly earlier
// than the given month and year
func (r *Reading) PeriodBefore(month, year int) bool {
	return r.PeriodIndex() < year*12+(month-1)
}

// ConsumptionFrom returns the volume consumed since the previous register value
func (r *Reading) ConsumptionFrom(previousValue decimal.Decimal) decimal.Decimal {
	return r.Value.Sub(previousValue)
}

// MarkBilled flags the reading once its billing is confirmed
func (r *Reading) MarkBilled() {
	r.IsBilled = true
}

// Void deactivates the reading so it no longer participates in
// previous-value lookups
func (r *Reading) Void() {
	r.Active = false
}
