package metering

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

func newAccountService(repos *testRepos) *AccountService {
	return NewAccountService(repos.accountRepo, repos.meterRepo, newTestRecorder())
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an accountholder", func(t *testing.T) {
		repos := newTestRepos()
		repos.accountRepo.On("Save", ctx, mock.AnythingOfType("*metering.Account")).Return(nil)

		account, err := newAccountService(repos).Create(ctx, AccountRequest{
			FirstName:    "Maria",
			LastName:     "Santos",
			Address:      "Purok 2",
			MobileNumber: "09171234567",
		}, "admin")

		require.NoError(t, err)
		assert.Equal(t, "Maria Santos", account.FullName())
		assert.True(t, account.Active)
		repos.accountRepo.AssertExpectations(t)
	})

	t.Run("rejects a missing last name", func(t *testing.T) {
		repos := newTestRepos()

		_, err := newAccountService(repos).Create(ctx, AccountRequest{
			FirstName: "Maria",
		}, "admin")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		repos.accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAccountService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes the account and its meters", func(t *testing.T) {
		repos := newTestRepos()
		account, err := metering.NewAccount("Maria", "", "Santos", "", "")
		require.NoError(t, err)
		meter, err := metering.NewMeter("MTR-100", account.ID, decimal.NewFromInt(0), time.Now())
		require.NoError(t, err)

		repos.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		repos.meterRepo.On("FindByAccount", ctx, account.ID).Return([]metering.Meter{*meter}, nil)
		repos.meterRepo.On("Save", ctx, mock.AnythingOfType("*metering.Meter")).Return(nil)
		repos.accountRepo.On("Save", ctx, account).Return(nil)

		err = newAccountService(repos).Delete(ctx, account.ID, "admin")

		require.NoError(t, err)
		assert.True(t, account.Deleted)
		savedMeter := false
		for _, call := range repos.meterRepo.Calls {
			if call.Method == "Save" && call.Arguments.Get(1).(*metering.Meter).Deleted {
				savedMeter = true
			}
		}
		assert.True(t, savedMeter, "meters are tombstoned together with the account")
	})

	t.Run("deleting twice returns not found", func(t *testing.T) {
		repos := newTestRepos()
		account, err := metering.NewAccount("Maria", "", "Santos", "", "")
		require.NoError(t, err)
		account.MarkDeleted()
		repos.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)

		err = newAccountService(repos).Delete(ctx, account.ID, "admin")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMeterService_Create(t *testing.T) {
	ctx := context.Background()

	newMeterService := func(repos *testRepos) *MeterService {
		return NewMeterService(repos.meterRepo, repos.accountRepo, newTestRecorder())
	}

	t.Run("installs a meter for an existing account", func(t *testing.T) {
		repos := newTestRepos()
		account, err := metering.NewAccount("Maria", "", "Santos", "", "")
		require.NoError(t, err)
		account.AccountNumber = "A0326-00001"

		repos.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		repos.meterRepo.On("FindByMeterNumber", ctx, "MTR-200").Return(nil, nil)
		repos.meterRepo.On("Save", ctx, mock.AnythingOfType("*metering.Meter")).Return(nil)

		meter, err := newMeterService(repos).Create(ctx, CreateMeterRequest{
			MeterNumber:      "MTR-200",
			AccountID:        account.ID,
			FirstValue:       decimal.NewFromInt(10),
			InstallationDate: time.Now(),
		}, "admin")

		require.NoError(t, err)
		assert.Equal(t, "MTR-200", meter.MeterNumber)
		assert.True(t, meter.Active)
	})

	t.Run("rejects a duplicate meter number", func(t *testing.T) {
		repos := newTestRepos()
		account, err := metering.NewAccount("Maria", "", "Santos", "", "")
		require.NoError(t, err)
		taken, err := metering.NewMeter("MTR-200", account.ID, decimal.Zero, time.Now())
		require.NoError(t, err)

		repos.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		repos.meterRepo.On("FindByMeterNumber", ctx, "MTR-200").Return(taken, nil)

		_, err = newMeterService(repos).Create(ctx, CreateMeterRequest{
			MeterNumber:      "MTR-200",
			AccountID:        account.ID,
			FirstValue:       decimal.Zero,
			InstallationDate: time.Now(),
		}, "admin")

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repos.meterRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown account", func(t *testing.T) {
		repos := newTestRepos()
		account, err := metering.NewAccount("Maria", "", "Santos", "", "")
		require.NoError(t, err)
		repos.accountRepo.On("FindByID", ctx, account.ID).Return(nil, nil)

		_, err = newMeterService(repos).Create(ctx, CreateMeterRequest{
			MeterNumber:      "MTR-201",
			AccountID:        account.ID,
			FirstValue:       decimal.Zero,
			InstallationDate: time.Now(),
		}, "admin")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT", domainErr.Code)
	})
}
