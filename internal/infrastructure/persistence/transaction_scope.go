package persistence

import (
	"context"

	appbilling "github.com/waterworks/backend/internal/application/billing"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/tariff"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ConfigurationRepo returns the rate configuration repository scoped to the current transaction
func (r *gormTransactionalRepositories) ConfigurationRepo() tariff.ConfigurationRepository {
	return NewGormConfigurationRepository(r.tx)
}

// AccountRepo returns the account repository scoped to the current transaction
func (r *gormTransactionalRepositories) AccountRepo() metering.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// MeterRepo returns the meter repository scoped to the current transaction
func (r *gormTransactionalRepositories) MeterRepo() metering.MeterRepository {
	return NewGormMeterRepository(r.tx)
}

// ReadingRepo returns the reading repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReadingRepo() metering.ReadingRepository {
	return NewGormReadingRepository(r.tx)
}

// BillingRepo returns the billing repository scoped to the current transaction
func (r *gormTransactionalRepositories) BillingRepo() billing.BillingRepository {
	return NewGormBillingRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormTransactionalRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
