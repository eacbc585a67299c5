package postgres

import (
	"context"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *transactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID uint, limit int, cursor uint) ([]*domain.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit)
	// The cursor is the id of the first row of the requested page.
	if cursor > 0 {
		query = query.Where("id <= ?", cursor)
	}

	var transactions []*domain.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
