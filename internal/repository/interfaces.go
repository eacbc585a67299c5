package repository

import (
	"context"
	"time"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsBySSNHash(ctx context.Context, ssnHash string) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uint) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uint) ([]*domain.Account, error)
	GetByUserIDAndType(ctx context.Context, userID uint, accountType domain.AccountType) (*domain.Account, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	// Fund atomically inserts the deposit row and applies
	// balance = ROUND(balance + amount, 2) in the storage engine, then
	// returns the transaction together with the authoritative balance read
	// back from the updated row. Both writes commit or roll back together.
	Fund(ctx context.Context, accountID uint, amount decimal.Decimal, description string) (*domain.Transaction, decimal.Decimal, error)
}

type TransactionRepository interface {
	// ListByAccountID returns up to limit transactions ordered by id
	// descending, starting at cursor (inclusive) when cursor > 0.
	ListByAccountID(ctx context.Context, accountID uint, limit int, cursor uint) ([]*domain.Transaction, error)
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Account     AccountRepository
	Transaction TransactionRepository
}
