package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kuowesley/securebank-technical-challenge/internal/crypto"
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	ssn      string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "Str0ng&Secret!pw",
		ssn:      fmt.Sprintf("%09d", time.Now().UnixNano()%1_000_000_000),
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithSSN sets the social security number
func (b *UserBuilder) WithSSN(ssn string) *UserBuilder {
	b.ssn = ssn
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	cryptoSvc := NewCryptoService(t)
	encryptedSSN, err := cryptoSvc.Encrypt(b.ssn)
	if err != nil {
		t.Fatalf("failed to encrypt ssn: %v", err)
	}

	user := &domain.User{
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		FirstName:    "Test",
		LastName:     "User",
		PhoneNumber:  "12125551234",
		DateOfBirth:  datatypes.Date(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)),
		SSN:          encryptedSSN,
		SSNHash:      cryptoSvc.Hash(b.ssn),
		Address:      "123 Main St",
		City:         "Anytown",
		State:        "CA",
		ZipCode:      "90001",
		CreatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AccountBuilder creates test accounts
type AccountBuilder struct {
	userID      uint
	accountType domain.AccountType
	status      domain.AccountStatus
	balance     decimal.Decimal
}

func NewAccountBuilder(userID uint) *AccountBuilder {
	return &AccountBuilder{
		userID:      userID,
		accountType: domain.AccountTypeChecking,
		status:      domain.AccountStatusActive,
		balance:     decimal.Zero,
	}
}

func (b *AccountBuilder) WithType(accountType domain.AccountType) *AccountBuilder {
	b.accountType = accountType
	return b
}

func (b *AccountBuilder) WithStatus(status domain.AccountStatus) *AccountBuilder {
	b.status = status
	return b
}

func (b *AccountBuilder) WithBalance(balance decimal.Decimal) *AccountBuilder {
	b.balance = balance
	return b
}

func (b *AccountBuilder) Build(t *testing.T, db *gorm.DB) *domain.Account {
	t.Helper()

	number, err := crypto.GenerateAccountNumber()
	if err != nil {
		t.Fatalf("failed to generate account number: %v", err)
	}

	account := &domain.Account{
		UserID:        b.userID,
		AccountNumber: number,
		AccountType:   b.accountType,
		Balance:       b.balance,
		Status:        b.status,
		CreatedAt:     time.Now(),
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return account
}

// SignupRequestBody returns a complete valid signup payload for the builder's user
func (b *UserBuilder) SignupRequestBody() map[string]string {
	return map[string]string{
		"email":       b.email,
		"password":    b.password,
		"firstName":   "Test",
		"lastName":    "User",
		"phoneNumber": "12125551234",
		"dateOfBirth": "1990-06-15",
		"ssn":         b.ssn,
		"address":     "123 Main St",
		"city":        "Anytown",
		"state":       "CA",
		"zipCode":     "90001",
	}
}

// SignupViaAPI registers the builder's user through the HTTP surface and
// returns the session cookie from the response
func (b *UserBuilder) SignupViaAPI(t *testing.T, ts *TestServer) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(b.SignupRequestBody())
	resp, err := http.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign up user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	return SessionCookie(t, resp)
}

// SessionCookie extracts the session cookie from a response
func SessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}
