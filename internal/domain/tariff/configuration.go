package tariff

import (
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Configuration holds the rate parameters used when billings are generated.
// Configurations are versioned append-only: updates deactivate every
// existing row and insert a fresh active one, so billing history keeps
// pointing at the exact rates it was computed with.
type Configuration struct {
	shared.BaseEntity
	RatePerCubicMeter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinimumConsumption int             `gorm:"not null"`
	MinimumCharge      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATRate            decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	PenaltyRate        decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	Active             bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Configuration) TableName() string {
	return "configurations"
}

// NewConfiguration creates a validated active configuration version
func NewConfiguration(rate decimal.Decimal, minimumConsumption int, minimumCharge, vatRate, penaltyRate decimal.Decimal) (*Configuration, error) {
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate per cubic meter cannot be negative")
	}
	if minimumConsumption < 0 {
		return nil, shared.NewDomainError("INVALID_MINIMUM_CONSUMPTION", "Minimum consumption cannot be negative")
	}
	if minimumCharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MINIMUM_CHARGE", "Minimum charge cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be in [0, 1)")
	}
	if penaltyRate.IsNegative() || penaltyRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_PENALTY_RATE", "Penalty rate must be in [0, 1)")
	}

	return &Configuration{
		BaseEntity:         shared.NewBaseEntity(),
		RatePerCubicMeter:  rate,
		MinimumConsumption: minimumConsumption,
		MinimumCharge:      minimumCharge,
		VATRate:            vatRate,
		PenaltyRate:        penaltyRate,
		Active:             true,
	}, nil
}

// Equals reports whether another configuration carries the same rate values
func (c *Configuration) Equals(other *Configuration) bool {
	if other == nil {
		return false
	}
	return c.RatePerCubicMeter.Equal(other.RatePerCubicMeter) &&
		c.MinimumConsumption == other.MinimumConsumption &&
		c.MinimumCharge.Equal(other.MinimumCharge) &&
		c.VATRate.Equal(other.VATRate) &&
		c.PenaltyRate.Equal(other.PenaltyRate)
}

// Deactivate marks the configuration version as superseded
func (c *Configuration) Deactivate() {
	c.Active = false
}
