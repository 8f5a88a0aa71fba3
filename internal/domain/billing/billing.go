package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/domain/tariff"
)

// BillingStatus represents the lifecycle status of a billing
type BillingStatus string

const (
	BillingStatusPending BillingStatus = "PENDING" // Generated, awaiting teller confirmation
	BillingStatusUnpaid  BillingStatus = "UNPAID"  // Confirmed, collectible
	BillingStatusPaid    BillingStatus = "PAID"    // Settled in full
	BillingStatusOverdue BillingStatus = "OVERDUE" // Unpaid billing superseded by a newer one
	BillingStatusVoided  BillingStatus = "VOIDED"  // Cancelled before confirmation
)

// IsValid checks if the status is a valid BillingStatus
func (s BillingStatus) IsValid() bool {
	switch s {
	case BillingStatusPending, BillingStatusUnpaid, BillingStatusPaid,
		BillingStatusOverdue, BillingStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of BillingStatus
func (s BillingStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the billing is in a terminal state
func (s BillingStatus) IsTerminal() bool {
	return s == BillingStatusPaid || s == BillingStatusVoided
}

// IsCollectible returns true if payments can be taken against this status
func (s BillingStatus) IsCollectible() bool {
	return s == BillingStatusUnpaid || s == BillingStatusOverdue
}

// Billing represents a monthly statement derived from a reading. The rate
// parameters are snapshotted from the configuration that was active at
// generation time; amounts are always recomputed from the snapshot so a
// later rate change never alters an issued statement.
type Billing struct {
	shared.BaseEntity
	BillingNumber      string          `gorm:"uniqueIndex;not null"`
	ReadingID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	MeterID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Consumption        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RatePerCubicMeter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinimumConsumption int             `gorm:"not null"`
	MinimumCharge      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATRate            decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	PenaltyRate        decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	Arrears            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status             BillingStatus   `gorm:"not null;index"`
	BillingDate        time.Time       `gorm:"not null"`
	DueDate            time.Time       `gorm:"not null"`
	DisconnectionDate  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Billing) TableName() string {
	return "billings"
}

// Grace periods applied from the billing date
const (
	DueDateOffsetDays           = 7
	DisconnectionDateOffsetDays = 15
)

// NewBilling creates a pending billing for a reading, snapshotting the
// given configuration
func NewBilling(readingID, meterID uuid.UUID, consumption decimal.Decimal, config *tariff.Configuration, arrears decimal.Decimal, billingDate time.Time) (*Billing, error) {
	if readingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_READING", "Billing must reference a reading")
	}
	if meterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METER", "Billing must reference a meter")
	}
	if config == nil {
		return nil, shared.ErrNoActiveConfig
	}
	if billingDate.IsZero() {
		billingDate = time.Now()
	}

	b := &Billing{
		BaseEntity:  shared.NewBaseEntity(),
		ReadingID:   readingID,
		MeterID:     meterID,
		Consumption: consumption,
		Arrears:     arrears,
		Status:      BillingStatusPending,
	}
	b.applySnapshot(config, billingDate)
	return b, nil
}

// Refresh overwrites the snapshot, dates, and arrears from a newer
// configuration and resets the billing to pending. Used when a reading's
// billing is regenerated before confirmation.
func (b *Billing) Refresh(consumption decimal.Decimal, config *tariff.Configuration, arrears decimal.Decimal, billingDate time.Time) error {
	if config == nil {
		return shared.ErrNoActiveConfig
	}
	if b.Status != BillingStatusPending && b.Status != BillingStatusUnpaid {
		return shared.NewDomainError("INVALID_STATUS", "Only pending or unpaid billings can be regenerated")
	}
	b.Consumption = consumption
	b.Arrears = arrears
	b.Status = BillingStatusPending
	b.applySnapshot(config, billingDate)
	return nil
}

func (b *Billing) applySnapshot(config *tariff.Configuration, billingDate time.Time) {
	b.RatePerCubicMeter = config.RatePerCubicMeter
	b.MinimumConsumption = config.MinimumConsumption
	b.MinimumCharge = config.MinimumCharge
	b.VATRate = config.VATRate
	b.PenaltyRate = config.PenaltyRate
	b.BillingDate = billingDate
	b.DueDate = billingDate.AddDate(0, 0, DueDateOffsetDays)
	b.DisconnectionDate = billingDate.AddDate(0, 0, DisconnectionDateOffsetDays)
}

// BaseAmount returns the volumetric charge. Consumption at or below the
// minimum is billed the flat minimum charge.
func (b *Billing) BaseAmount() decimal.Decimal {
	if b.Consumption.GreaterThan(decimal.NewFromInt(int64(b.MinimumConsumption))) {
		return b.Consumption.Mul(b.RatePerCubicMeter)
	}
	return b.MinimumCharge
}

// VATAmount returns the tax on the base amount
func (b *Billing) VATAmount() decimal.Decimal {
	return b.BaseAmount().Mul(b.VATRate)
}

// DueAmount returns the total collectible before the due date
func (b *Billing) DueAmount() decimal.Decimal {
	return b.BaseAmount().Add(b.VATAmount()).Add(b.Arrears)
}

// PenaltyAmount returns the late-payment surcharge
func (b *Billing) PenaltyAmount() decimal.Decimal {
	return b.DueAmount().Mul(b.PenaltyRate)
}

// OverdueAmount returns the total collectible after the due date
func (b *Billing) OverdueAmount() decimal.Decimal {
	return b.DueAmount().Add(b.PenaltyAmount())
}

// AmountDue returns the collectible amount as of the given time. Past the
// due date the penalty applies.
func (b *Billing) AmountDue(asOf time.Time) decimal.Decimal {
	if asOf.After(b.DueDate) {
		return b.OverdueAmount()
	}
	return b.DueAmount()
}

// Confirm transitions the billing from pending to unpaid
func (b *Billing) Confirm() error {
	if b.Status != BillingStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Only pending billings can be confirmed")
	}
	b.Status = BillingStatusUnpaid
	return nil
}

// Void cancels a billing that has not been confirmed yet
func (b *Billing) Void() error {
	if b.Status != BillingStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Only pending billings can be voided")
	}
	b.Status = BillingStatusVoided
	return nil
}

// MarkOverdue flags an unpaid billing once a newer billing folds its
// balance into arrears
func (b *Billing) MarkOverdue() error {
	if b.Status != BillingStatusUnpaid {
		return shared.NewDomainError("INVALID_STATUS", "Only unpaid billings can be marked overdue")
	}
	b.Status = BillingStatusOverdue
	return nil
}

// Settle compares the cumulative posted amount against the collectible
// amount as of now and flips the billing to paid when covered. A payment
// exactly matching the target settles the billing. Anything short leaves
// an overdue billing overdue; the penalty stands until the balance clears.
func (b *Billing) Settle(totalPosted decimal.Decimal, asOf time.Time) {
	if totalPosted.GreaterThanOrEqual(b.AmountDue(asOf)) {
		b.Status = BillingStatusPaid
		return
	}
	if b.Status != BillingStatusOverdue {
		b.Status = BillingStatusUnpaid
	}
}
