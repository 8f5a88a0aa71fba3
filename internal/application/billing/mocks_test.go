package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/waterworks/backend/internal/application/audit"
	appnotification "github.com/waterworks/backend/internal/application/notification"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/domain/tariff"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockConfigurationRepository is a mock implementation of ConfigurationRepository
type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.Configuration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) FindActive(ctx context.Context) (*tariff.Configuration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) FindAll(ctx context.Context) ([]tariff.Configuration, error) {
	args := m.Called(ctx)
	return args.Get(0).([]tariff.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) Rotate(ctx context.Context, config *tariff.Configuration) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*metering.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Account, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]metering.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *metering.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockMeterRepository is a mock implementation of MeterRepository
type MockMeterRepository struct {
	mock.Mock
}

func (m *MockMeterRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Meter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) FindByMeterNumber(ctx context.Context, meterNumber string) (*metering.Meter, error) {
	args := m.Called(ctx, meterNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]metering.Meter, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]metering.Meter), args.Error(1)
}

func (m *MockMeterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Meter, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]metering.Meter), args.Get(1).(int64), args.Error(2)
}

func (m *MockMeterRepository) Save(ctx context.Context, meter *metering.Meter) error {
	args := m.Called(ctx, meter)
	return args.Error(0)
}

// MockReadingRepository is a mock implementation of ReadingRepository
type MockReadingRepository struct {
	mock.Mock
}

func (m *MockReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindByMeterAndPeriod(ctx context.Context, meterID uuid.UUID, month, year int) (*metering.Reading, error) {
	args := m.Called(ctx, meterID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindLatestByMeter(ctx context.Context, meterID uuid.UUID) (*metering.Reading, error) {
	args := m.Called(ctx, meterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindLatestBefore(ctx context.Context, meterID uuid.UUID, month, year int) (*metering.Reading, error) {
	args := m.Called(ctx, meterID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID) ([]metering.Reading, error) {
	args := m.Called(ctx, meterID)
	return args.Get(0).([]metering.Reading), args.Error(1)
}

func (m *MockReadingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Reading, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]metering.Reading), args.Get(1).(int64), args.Error(2)
}

func (m *MockReadingRepository) Save(ctx context.Context, reading *metering.Reading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

// MockBillingRepository is a mock implementation of BillingRepository
type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Billing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Billing), args.Error(1)
}

func (m *MockBillingRepository) FindByBillingNumber(ctx context.Context, billingNumber string) (*billing.Billing, error) {
	args := m.Called(ctx, billingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Billing), args.Error(1)
}

func (m *MockBillingRepository) FindByReading(ctx context.Context, readingID uuid.UUID) (*billing.Billing, error) {
	args := m.Called(ctx, readingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Billing), args.Error(1)
}

func (m *MockBillingRepository) FindUnpaidByMeter(ctx context.Context, meterID uuid.UUID) ([]billing.Billing, error) {
	args := m.Called(ctx, meterID)
	return args.Get(0).([]billing.Billing), args.Error(1)
}

func (m *MockBillingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID) ([]billing.Billing, error) {
	args := m.Called(ctx, meterID)
	return args.Get(0).([]billing.Billing), args.Error(1)
}

func (m *MockBillingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Billing, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Billing), args.Get(1).(int64), args.Error(2)
}

func (m *MockBillingRepository) Save(ctx context.Context, b *billing.Billing) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByBilling(ctx context.Context, billingID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, billingID)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumPostedByBilling(ctx context.Context, billingID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// =============================================================================
// Test fixtures
// =============================================================================

type testRepos struct {
	configRepo  *MockConfigurationRepository
	accountRepo *MockAccountRepository
	meterRepo   *MockMeterRepository
	readingRepo *MockReadingRepository
	billingRepo *MockBillingRepository
	paymentRepo *MockPaymentRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		configRepo:  new(MockConfigurationRepository),
		accountRepo: new(MockAccountRepository),
		meterRepo:   new(MockMeterRepository),
		readingRepo: new(MockReadingRepository),
		billingRepo: new(MockBillingRepository),
		paymentRepo: new(MockPaymentRepository),
	}
}

func (r *testRepos) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		r.configRepo, r.accountRepo, r.meterRepo,
		r.readingRepo, r.billingRepo, r.paymentRepo,
	)
}

type stubAuditRepo struct{}

func (stubAuditRepo) FindAll(context.Context, shared.Filter) ([]domainaudit.AuditLog, int64, error) {
	return nil, 0, nil
}
func (stubAuditRepo) Save(context.Context, *domainaudit.AuditLog) error { return nil }

type stubSettingsRepo struct{}

func (stubSettingsRepo) FindActive(context.Context) (*notification.AlertSettings, error) {
	return nil, nil
}
func (stubSettingsRepo) Rotate(context.Context, *notification.AlertSettings) error { return nil }

type stubSMSLogRepo struct{}

func (stubSMSLogRepo) FindAll(context.Context, shared.Filter) ([]notification.SMSLog, int64, error) {
	return nil, 0, nil
}
func (stubSMSLogRepo) Save(context.Context, *notification.SMSLog) error { return nil }

type stubSender struct{}

func (stubSender) Send(context.Context, *notification.AlertSettings, string, string) error {
	return nil
}

func newTestRecorder() *audit.Recorder {
	return audit.NewRecorder(stubAuditRepo{}, zap.NewNop())
}

func newTestNotifier() *appnotification.Notifier {
	return appnotification.NewNotifier(stubSettingsRepo{}, stubSMSLogRepo{}, stubSender{}, zap.NewNop())
}
