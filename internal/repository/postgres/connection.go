package postgres

import (
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Ensure schema idempotently on startup
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Account{},
		&domain.Transaction{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Account:     NewAccountRepository(db),
		Transaction: NewTransactionRepository(db),
	}
}
