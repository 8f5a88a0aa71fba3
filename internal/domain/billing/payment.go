package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// PaymentMode represents how a payment was tendered
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCheck  PaymentMode = "CHECK"
	PaymentModeOnline PaymentMode = "ONLINE"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheck, PaymentModeOnline:
		return true
	}
	return false
}

// PostsImmediately returns true for tender types that clear on receipt.
// Checks stay unposted until a teller confirms they cleared.
func (m PaymentMode) PostsImmediately() bool {
	return m == PaymentModeCash || m == PaymentModeOnline
}

// PaymentStatus represents the posting status of a payment
type PaymentStatus string

const (
	PaymentStatusUnposted  PaymentStatus = "UNPOSTED"
	PaymentStatusPosted    PaymentStatus = "POSTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnposted, PaymentStatusPosted, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment represents money received against a billing
type Payment struct {
	shared.BaseEntity
	PaymentNumber string          `gorm:"uniqueIndex;not null"`
	BillingID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Mode          PaymentMode     `gorm:"not null"`
	Status        PaymentStatus   `gorm:"not null;index"`
	PaymentDate   time.Time       `gorm:"not null"`
	ReceivedBy    string          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a validated payment. Cash and online payments post
// immediately; checks start unposted.
func NewPayment(billingID uuid.UUID, amount decimal.Decimal, mode PaymentMode, receivedBy string, paymentDate time.Time) (*Payment, error) {
	if billingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILLING", "Payment must reference a billing")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Unknown payment mode")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	status := PaymentStatusUnposted
	if mode.PostsImmediately() {
		status = PaymentStatusPosted
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		BillingID:   billingID,
		Amount:      amount,
		Mode:        mode,
		Status:      status,
		PaymentDate: paymentDate,
		ReceivedBy:  receivedBy,
	}, nil
}

// Post marks an unposted payment as cleared
func (p *Payment) Post() error {
	if p.Status != PaymentStatusUnposted {
		return shared.NewDomainError("INVALID_STATUS", "Only unposted payments can be confirmed")
	}
	p.Status = PaymentStatusPosted
	return nil
}

// Cancel voids a payment that has not been posted
func (p *Payment) Cancel() error {
	if p.Status != PaymentStatusUnposted {
		return shared.NewDomainError("INVALID_STATUS", "Only unposted payments can be cancelled")
	}
	p.Status = PaymentStatusCancelled
	return nil
}
