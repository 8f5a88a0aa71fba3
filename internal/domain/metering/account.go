package metering

import (
	"strings"

	"github.com/waterworks/backend/internal/domain/shared"
)

// Account represents an accountholder a meter is registered to
type Account struct {
	shared.BaseEntity
	AccountNumber string `gorm:"uniqueIndex;not null"`
	FirstName     string `gorm:"not null"`
	MiddleName    string
	LastName      string `gorm:"not null"`
	Address       string
	MobileNumber  string
	Active        bool `gorm:"not null;default:true"`
	Deleted       bool `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a validated account. The account number is assigned
// by the repository on first save.
func NewAccount(firstName, middleName, lastName, address, mobileNumber string) (*Account, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name is required")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name is required")
	}

	return &Account{
		BaseEntity:   shared.NewBaseEntity(),
		FirstName:    strings.TrimSpace(firstName),
		MiddleName:   strings.TrimSpace(middleName),
		LastName:     strings.TrimSpace(lastName),
		Address:      strings.TrimSpace(address),
		MobileNumber: strings.TrimSpace(mobileNumber),
		Active:       true,
	}, nil
}

// FullName returns the accountholder's display name
func (a *Account) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// MarkDeleted soft-deletes the account. Rows are kept as tombstones so
// historical readings and billings stay resolvable.
func (a *Account) MarkDeleted() {
	a.Deleted = true
	a.Active = false
}
