package notification

import (
	"github.com/waterworks/backend/internal/domain/shared"
)

// SMSStatus represents the delivery outcome recorded for a message
type SMSStatus string

const (
	SMSStatusSuccess SMSStatus = "SUCCESS"
	SMSStatusFailed  SMSStatus = "FAILED"
)

// SMSLog records every send attempt, successful or not, with the raw
// gateway error when there was one
type SMSLog struct {
	shared.BaseEntity
	Recipient string    `gorm:"not null;index"`
	Message   string    `gorm:"not null"`
	Status    SMSStatus `gorm:"not null;index"`
	Error     string
}

// TableName returns the table name for GORM
func (SMSLog) TableName() string {
	return "sms_logs"
}

// NewSMSLog records a send attempt
func NewSMSLog(recipient, message string, status SMSStatus, sendErr string) *SMSLog {
	return &SMSLog{
		BaseEntity: shared.NewBaseEntity(),
		Recipient:  recipient,
		Message:    message,
		Status:     status,
		Error:      sendErr,
	}
}
