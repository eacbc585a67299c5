package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kuowesley/securebank-technical-challenge/internal/crypto"
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/repository"
	"github.com/kuowesley/securebank-technical-challenge/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultTransactionLimit = 20
	MaxTransactionLimit     = 100
)

type AccountService struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
}

func NewAccountService(accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// CreateAccount opens an account of the given type for the user. A user
// holds at most one checking and one savings account. Account numbers are
// drawn at random and retried until unique; the keyspace is 1e10, so the
// expected number of draws is one.
func (s *AccountService) CreateAccount(ctx context.Context, userID uint, accountType domain.AccountType) (*domain.Account, error) {
	if !accountType.Valid() {
		verr := &ValidationError{}
		verr.add("accountType", "Account type must be checking or savings")
		return nil, verr
	}

	_, err := s.accountRepo.GetByUserIDAndType(ctx, userID, accountType)
	if err == nil {
		return nil, domain.ErrAccountTypeExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for {
		number, err := crypto.GenerateAccountNumber()
		if err != nil {
			return nil, err
		}

		taken, err := s.accountRepo.ExistsByAccountNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		account := &domain.Account{
			UserID:        userID,
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			Status:        domain.AccountStatusActive,
			CreatedAt:     time.Now(),
		}

		err = s.accountRepo.Create(ctx, account)
		if errors.Is(err, domain.ErrDuplicateAccountNo) {
			// Lost the race between the existence check and the insert.
			continue
		}
		if err != nil {
			return nil, err
		}
		return account, nil
	}
}

func (s *AccountService) GetAccounts(ctx context.Context, userID uint) ([]*domain.Account, error) {
	return s.accountRepo.GetByUserID(ctx, userID)
}

type FundingSourceType string

const (
	FundingSourceCard FundingSourceType = "card"
	FundingSourceBank FundingSourceType = "bank"
)

type FundingSource struct {
	Type          FundingSourceType
	AccountNumber string
	RoutingNumber string
}

type FundInput struct {
	Amount decimal.Decimal
	Source FundingSource
}

func validateFundInput(input FundInput) error {
	verr := &ValidationError{}

	if !input.Amount.IsPositive() {
		verr.add("amount", "Amount must be greater than zero")
	} else if !input.Amount.Equal(input.Amount.Round(2)) {
		verr.add("amount", "Amount cannot have more than 2 decimal places")
	}

	switch input.Source.Type {
	case FundingSourceCard:
		if !validation.IsValidCardNumber(input.Source.AccountNumber) {
			verr.add("fundingSource.accountNumber", "Invalid card number")
		}
	case FundingSourceBank:
		if !validation.IsValidBankAccountNumber(input.Source.AccountNumber) {
			verr.add("fundingSource.accountNumber", "Invalid account number")
		}
		if input.Source.RoutingNumber == "" {
			verr.add("fundingSource.routingNumber", "Routing number is required")
		} else if !validation.IsValidRoutingNumber(input.Source.RoutingNumber) {
			verr.add("fundingSource.routingNumber", "Routing number must be 9 digits")
		}
	default:
		verr.add("fundingSource.type", "Funding source type must be card or bank")
	}

	return verr.orNil()
}

// FundAccount validates the deposit, verifies ownership and status, and
// hands the write to the repository, which applies the balance increment
// atomically in storage. The returned balance is the post-update value read
// back from the row.
func (s *AccountService) FundAccount(ctx context.Context, userID, accountID uint, input FundInput) (*domain.Transaction, decimal.Decimal, error) {
	if err := validateFundInput(input); err != nil {
		return nil, decimal.Zero, err
	}

	amount := input.Amount.Round(2)

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, domain.ErrAccountNotFound
		}
		return nil, decimal.Zero, err
	}
	if account.UserID != userID {
		// Not owned reads the same as absent.
		return nil, decimal.Zero, domain.ErrAccountNotFound
	}
	if account.Status != domain.AccountStatusActive {
		return nil, decimal.Zero, domain.ErrAccountNotActive
	}

	description := fmt.Sprintf("Funding from %s", input.Source.Type)
	return s.accountRepo.Fund(ctx, accountID, amount, description)
}

// TransactionItem is a transaction enriched with its account's type.
type TransactionItem struct {
	*domain.Transaction
	AccountType domain.AccountType `json:"accountType"`
}

type TransactionPage struct {
	Items      []TransactionItem
	NextCursor *uint
}

// GetTransactions pages through an account's history newest first. The
// cursor is the id of the first transaction of the next page; limit is
// clamped to [1, MaxTransactionLimit] with DefaultTransactionLimit when
// unset.
func (s *AccountService) GetTransactions(ctx context.Context, userID, accountID uint, limit int, cursor uint) (*TransactionPage, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}

	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}

	// One extra row tells us whether another page exists and where it starts.
	transactions, err := s.transactionRepo.ListByAccountID(ctx, accountID, limit+1, cursor)
	if err != nil {
		return nil, err
	}

	page := &TransactionPage{}
	if len(transactions) > limit {
		next := transactions[limit].ID
		page.NextCursor = &next
		transactions = transactions[:limit]
	}

	page.Items = make([]TransactionItem, 0, len(transactions))
	for _, txn := range transactions {
		page.Items = append(page.Items, TransactionItem{
			Transaction: txn,
			AccountType: account.AccountType,
		})
	}

	return page, nil
}
