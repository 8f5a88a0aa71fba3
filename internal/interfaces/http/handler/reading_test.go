package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waterworks/backend/internal/application/audit"
	appbilling "github.com/waterworks/backend/internal/application/billing"
	meteringapp "github.com/waterworks/backend/internal/application/metering"
	appnotification "github.com/waterworks/backend/internal/application/notification"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/domain/tariff"
)

// MockConfigurationRepository implements tariff.ConfigurationRepository for testing
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

// MockAccountRepository implements metering.AccountRepository for testing
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

// MockMeterRepository implements metering.MeterRepository for testing
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

// MockReadingRepository implements metering.ReadingRepository for testing
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

// MockBillingRepository implements billing.BillingRepository for testing
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

// stubPaymentRepo satisfies the scope; reading endpoints never touch payments
type stubPaymentRepo struct{}

func (stubPaymentRepo) FindByID(context.Context, uuid.UUID) (*billing.Payment, error) {
	return nil, nil
}
func (stubPaymentRepo) FindByBilling(context.Context, uuid.UUID) ([]billing.Payment, error) {
	return nil, nil
}
func (stubPaymentRepo) SumPostedByBilling(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (stubPaymentRepo) FindAll(context.Context, shared.Filter) ([]billing.Payment, int64, error) {
	return nil, 0, nil
}
func (stubPaymentRepo) Save(context.Context, *billing.Payment) error { return nil }

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

// Test fixtures

type readingTestRepos struct {
	configRepo  *MockConfigurationRepository
	accountRepo *MockAccountRepository
	meterRepo   *MockMeterRepository
	readingRepo *MockReadingRepository
	billingRepo *MockBillingRepository
}

func newReadingTestRepos() *readingTestRepos {
	return &readingTestRepos{
		configRepo:  new(MockConfigurationRepository),
		accountRepo: new(MockAccountRepository),
		meterRepo:   new(MockMeterRepository),
		readingRepo: new(MockReadingRepository),
		billingRepo: new(MockBillingRepository),
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupReadingHandler(repos *readingTestRepos) *ReadingHandler {
	scope := appbilling.NewNoOpTransactionScope(
		repos.configRepo, repos.accountRepo, repos.meterRepo,
		repos.readingRepo, repos.billingRepo, stubPaymentRepo{},
	)
	recorder := audit.NewRecorder(stubAuditRepo{}, zap.NewNop())
	notifier := appnotification.NewNotifier(stubSettingsRepo{}, stubSMSLogRepo{}, stubSender{}, zap.NewNop())
	readingService := meteringapp.NewReadingService(scope, appbilling.NewGenerator(), notifier, recorder)
	return NewReadingHandler(readingService)
}

func readingHandlerFixtures(t *testing.T) (*metering.Account, *metering.Meter, *metering.Reading, *tariff.Configuration) {
	t.Helper()
	account, err := metering.NewAccount("Maria", "", "Santos", "Purok 2", "")
	require.NoError(t, err)
	meter, err := metering.NewMeter("MTR-100", account.ID, decimal.NewFromInt(50), time.Now())
	require.NoError(t, err)
	reading, err := metering.NewReading(meter.ID, decimal.NewFromInt(62), 3, 2026, time.Now())
	require.NoError(t, err)
	config, err := tariff.NewConfiguration(
		decimal.NewFromInt(25), 3, decimal.NewFromInt(75),
		decimal.NewFromFloat(0.12), decimal.NewFromFloat(0.1),
	)
	require.NoError(t, err)
	return account, meter, reading, config
}

// Tests

func TestReadingHandler_Update_Success(t *testing.T) {
	repos := newReadingTestRepos()
	handler := setupReadingHandler(repos)
	account, meter, reading, config := readingHandlerFixtures(t)

	existing, err := billing.NewBilling(reading.ID, meter.ID, decimal.NewFromInt(12), config, decimal.Zero, time.Now())
	require.NoError(t, err)
	require.NoError(t, existing.Confirm())

	repos.readingRepo.On("FindByID", mock.Anything, reading.ID).Return(reading, nil)
	repos.meterRepo.On("FindByID", mock.Anything, meter.ID).Return(meter, nil)
	repos.readingRepo.On("FindByMeterAndPeriod", mock.Anything, meter.ID, 3, 2026).Return(reading, nil)
	repos.readingRepo.On("FindLatestByMeter", mock.Anything, meter.ID).Return(reading, nil)
	repos.readingRepo.On("FindLatestBefore", mock.Anything, meter.ID, 3, 2026).Return(nil, nil)
	repos.readingRepo.On("Save", mock.Anything, reading).Return(nil)
	repos.configRepo.On("FindActive", mock.Anything).Return(config, nil)
	repos.billingRepo.On("FindUnpaidByMeter", mock.Anything, meter.ID).Return([]billing.Billing{}, nil)
	repos.billingRepo.On("FindByReading", mock.Anything, reading.ID).Return(existing, nil)
	repos.billingRepo.On("Save", mock.Anything, existing).Return(nil)
	repos.accountRepo.On("FindByID", mock.Anything, meter.AccountID).Return(account, nil)

	router := setupTestRouter()
	router.PUT("/readings/:id", handler.Update)

	reqBody := UpdateReadingRequest{
		Value:       80,
		Month:       3,
		Year:        2026,
		ReadingDate: time.Now(),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/readings/"+reading.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    RecordReadingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(30), resp.Data.Consumption, "consumption re-derives from the amended value")
	assert.Equal(t, string(billing.BillingStatusPending), resp.Data.Billing.Status,
		"an edit returns the billing to pending")
	repos.readingRepo.AssertExpectations(t)
	repos.billingRepo.AssertExpectations(t)
}

func TestReadingHandler_Update_NotFound(t *testing.T) {
	repos := newReadingTestRepos()
	handler := setupReadingHandler(repos)

	readingID := uuid.New()
	repos.readingRepo.On("FindByID", mock.Anything, readingID).Return(nil, nil)

	router := setupTestRouter()
	router.PUT("/readings/:id", handler.Update)

	body, _ := json.Marshal(UpdateReadingRequest{
		Value: 80, Month: 3, Year: 2026, ReadingDate: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPut, "/readings/"+readingID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingHandler_Update_DuplicatePeriod(t *testing.T) {
	repos := newReadingTestRepos()
	handler := setupReadingHandler(repos)
	_, meter, reading, _ := readingHandlerFixtures(t)

	other, err := metering.NewReading(meter.ID, decimal.NewFromInt(70), 4, 2026, time.Now())
	require.NoError(t, err)

	repos.readingRepo.On("FindByID", mock.Anything, reading.ID).Return(reading, nil)
	repos.meterRepo.On("FindByID", mock.Anything, meter.ID).Return(meter, nil)
	repos.readingRepo.On("FindByMeterAndPeriod", mock.Anything, meter.ID, 4, 2026).Return(other, nil)

	router := setupTestRouter()
	router.PUT("/readings/:id", handler.Update)

	body, _ := json.Marshal(UpdateReadingRequest{
		Value: 80, Month: 4, Year: 2026, ReadingDate: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPut, "/readings/"+reading.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	repos.readingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReadingHandler_Update_InvalidID(t *testing.T) {
	repos := newReadingTestRepos()
	handler := setupReadingHandler(repos)

	router := setupTestRouter()
	router.PUT("/readings/:id", handler.Update)

	body, _ := json.Marshal(UpdateReadingRequest{
		Value: 80, Month: 3, Year: 2026, ReadingDate: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPut, "/readings/not-a-uuid", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
