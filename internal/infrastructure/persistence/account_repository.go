package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Account, error) {
	var account metering.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByAccountNumber finds an account by its generated number
func (r *GormAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*metering.Account, error) {
	var account metering.Account
	if err := r.db.WithContext(ctx).First(&account, "account_number = ?", accountNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds non-deleted accounts with filtering
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&metering.Account{}).Where("deleted = ?", false)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"account_number ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []metering.Account
	if err := applyFilter(query, filter).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// Save creates or updates an account. New accounts get the next number
// in the current period. The count-based sequence can race under
// concurrent creates; the unique index rejects the loser.
func (r *GormAccountRepository) Save(ctx context.Context, account *metering.Account) error {
	if account.AccountNumber == "" {
		number, err := nextDocumentNumber(ctx, r.db, &metering.Account{}, "account_number", "A")
		if err != nil {
			return err
		}
		account.AccountNumber = number
	}
	return r.db.WithContext(ctx).Save(account).Error
}

// nextDocumentNumber derives the next prefix+MMyy+NNNNN number from the
// count of rows already numbered in the current period
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	now := time.Now()
	var count int64
	if err := db.WithContext(ctx).
		Model(model).
		Where(column+" LIKE ?", prefix+shared.PeriodCode(now)+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return shared.SequenceNumber(prefix, now, int(count)+1), nil
}

// Ensure GormAccountRepository implements the interface
var _ metering.AccountRepository = (*GormAccountRepository)(nil)
