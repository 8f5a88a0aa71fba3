package notification

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// Sender delivers a single message through the SMS gateway using the
// credentials carried by the active alert settings
type Sender interface {
	Send(ctx context.Context, settings *notification.AlertSettings, to, message string) error
}

// Notifier sends best-effort SMS alerts to accountholders. It is always
// called after the triggering transaction commits; gateway failures are
// logged and recorded but never returned to the caller.
type Notifier struct {
	settingsRepo notification.AlertSettingsRepository
	logRepo      notification.SMSLogRepository
	sender       Sender
	logger       *zap.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(
	settingsRepo notification.AlertSettingsRepository,
	logRepo notification.SMSLogRepository,
	sender Sender,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		sender:       sender,
		logger:       logger,
	}
}

// ReadingRecorded alerts the accountholder that a reading was taken
func (n *Notifier) ReadingRecorded(ctx context.Context, account *metering.Account, meter *metering.Meter, reading *metering.Reading, consumption decimal.Decimal) {
	msg := fmt.Sprintf(
		"Dear %s, the reading for meter %s (%02d/%d) has been recorded. Consumption: %s cu.m.",
		account.FullName(), meter.MeterNumber, reading.Month, reading.Year, consumption.String(),
	)
	n.notify(ctx, notification.AlertKindReading, account.MobileNumber, msg)
}

// BillingConfirmed alerts the accountholder that a billing is collectible
func (n *Notifier) BillingConfirmed(ctx context.Context, account *metering.Account, b *billing.Billing) {
	msg := fmt.Sprintf(
		"Dear %s, your water bill %s amounting to %s is due on %s. After the due date the amount is %s.",
		account.FullName(), b.BillingNumber,
		b.DueAmount().StringFixed(2), b.DueDate.Format("Jan 2, 2006"),
		b.OverdueAmount().StringFixed(2),
	)
	n.notify(ctx, notification.AlertKindBilling, account.MobileNumber, msg)
}

// PaymentReceived alerts the accountholder that a payment was taken
func (n *Notifier) PaymentReceived(ctx context.Context, account *metering.Account, p *billing.Payment, b *billing.Billing) {
	msg := fmt.Sprintf(
		"Dear %s, we received your payment %s of %s for bill %s. Thank you.",
		account.FullName(), p.PaymentNumber, p.Amount.StringFixed(2), b.BillingNumber,
	)
	n.notify(ctx, notification.AlertKindPayment, account.MobileNumber, msg)
}

func (n *Notifier) notify(ctx context.Context, kind notification.AlertKind, mobileNumber, message string) {
	if mobileNumber == "" {
		return
	}

	settings, err := n.settingsRepo.FindActive(ctx)
	if err != nil {
		n.logger.Warn("Failed to load alert settings", zap.Error(err))
		return
	}
	if settings == nil || !settings.Allows(kind) {
		return
	}

	if settings.MessageHeader != "" {
		message = settings.MessageHeader + ": " + message
	}
	recipient := notification.NormalizeMobileNumber(mobileNumber)

	status := notification.SMSStatusSuccess
	sendErr := ""
	if err := n.sender.Send(ctx, settings, recipient, message); err != nil {
		status = notification.SMSStatusFailed
		sendErr = err.Error()
		n.logger.Warn("SMS send failed",
			zap.String("recipient", recipient),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	if err := n.logRepo.Save(ctx, notification.NewSMSLog(recipient, message, status, sendErr)); err != nil {
		n.logger.Warn("Failed to record SMS log", zap.Error(err))
	}
}
