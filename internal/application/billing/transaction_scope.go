package billing

import (
	"context"

	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/tariff"
)

// TransactionScope provides transactional access to the repositories the
// billing workflows touch. When a function is executed within a scope,
// all repository operations are part of the same database transaction
// and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
//
// The reading-save workflow writes a reading, regenerates its billing,
// and demotes older unpaid billings in one transaction; the payment
// workflows write a payment and resettle its billing likewise.
type TransactionalRepositories interface {
	// ConfigurationRepo returns the rate configuration repository scoped to the current transaction
	ConfigurationRepo() tariff.ConfigurationRepository
	// AccountRepo returns the account repository scoped to the current transaction
	AccountRepo() metering.AccountRepository
	// MeterRepo returns the meter repository scoped to the current transaction
	MeterRepo() metering.MeterRepository
	// ReadingRepo returns the reading repository scoped to the current transaction
	ReadingRepo() metering.ReadingRepository
	// BillingRepo returns the billing repository scoped to the current transaction
	BillingRepo() billing.BillingRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	configRepo  tariff.ConfigurationRepository
	accountRepo metering.AccountRepository
	meterRepo   metering.MeterRepository
	readingRepo metering.ReadingRepository
	billingRepo billing.BillingRepository
	paymentRepo billing.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	configRepo tariff.ConfigurationRepository,
	accountRepo metering.AccountRepository,
	meterRepo metering.MeterRepository,
	readingRepo metering.ReadingRepository,
	billingRepo billing.BillingRepository,
	paymentRepo billing.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		configRepo:  configRepo,
		accountRepo: accountRepo,
		meterRepo:   meterRepo,
		readingRepo: readingRepo,
		billingRepo: billingRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ConfigurationRepo returns the rate configuration repository.
func (s *NoOpTransactionScope) ConfigurationRepo() tariff.ConfigurationRepository {
	return s.configRepo
}

// AccountRepo returns the account repository.
func (s *NoOpTransactionScope) AccountRepo() metering.AccountRepository {
	return s.accountRepo
}

// MeterRepo returns the meter repository.
func (s *NoOpTransactionScope) MeterRepo() metering.MeterRepository {
	return s.meterRepo
}

// ReadingRepo returns the reading repository.
func (s *NoOpTransactionScope) ReadingRepo() metering.ReadingRepository {
	return s.readingRepo
}

// BillingRepo returns the billing repository.
func (s *NoOpTransactionScope) BillingRepo() billing.BillingRepository {
	return s.billingRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
