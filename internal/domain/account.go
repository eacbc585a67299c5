package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

type AccountStatus string

const (
	AccountStatusPending AccountStatus = "pending"
	AccountStatusActive  AccountStatus = "active"
)

type Account struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"userId" gorm:"index;not null"`
	AccountNumber string          `json:"accountNumber" gorm:"uniqueIndex;not null"`
	AccountType   AccountType     `json:"accountType" gorm:"not null"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);not null;default:0"`
	Status        AccountStatus   `json:"status" gorm:"not null;default:'active'"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction rows are immutable once their status is completed.
type Transaction struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	AccountID   uint              `json:"accountId" gorm:"index;not null"`
	Type        TransactionType   `json:"type" gorm:"not null"`
	Amount      decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time         `json:"createdAt"`
	ProcessedAt *time.Time        `json:"processedAt"`
}
