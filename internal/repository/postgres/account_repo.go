package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// A racing insert won the account number; caller retries with a
		// fresh draw.
		return domain.ErrDuplicateAccountNo
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID uint) ([]*domain.Account, error) {
	// Non-nil so zero accounts serializes as [] rather than null.
	accounts := make([]*domain.Account, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) GetByUserIDAndType(ctx context.Context, userID uint, accountType domain.AccountType) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		First(&account, "user_id = ? AND account_type = ?", userID, accountType).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error
	return count > 0, err
}

// Fund writes the deposit row and increments the balance in one database
// transaction. The increment runs as ROUND(balance + ?, 2) inside the
// engine, so concurrent deposits on the same account serialize on the row
// instead of losing updates to read-modify-write races.
func (r *accountRepository) Fund(ctx context.Context, accountID uint, amount decimal.Decimal, description string) (*domain.Transaction, decimal.Decimal, error) {
	now := time.Now()
	txn := &domain.Transaction{
		AccountID:   accountID,
		Type:        domain.TransactionTypeDeposit,
		Amount:      amount,
		Description: description,
		Status:      domain.TransactionStatusCompleted,
		ProcessedAt: &now,
	}

	var newBalance decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.Account{}).
			Where("id = ?", accountID).
			UpdateColumn("balance", gorm.Expr("ROUND(balance + ?, 2)", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}

		// Return the authoritative post-update value, never a client-side sum.
		var updated domain.Account
		if err := tx.First(&updated, "id = ?", accountID).Error; err != nil {
			return err
		}
		newBalance = updated.Balance
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return txn, newBalance, nil
}
