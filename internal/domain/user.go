package domain

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	FirstName    string         `json:"firstName" gorm:"not null"`
	LastName     string         `json:"lastName" gorm:"not null"`
	PhoneNumber  string         `json:"phoneNumber" gorm:"not null"`
	DateOfBirth  datatypes.Date `json:"dateOfBirth" gorm:"not null"`
	// SSN holds the AEAD envelope, never the plaintext. SSNHash is the
	// keyed blind index used for existence checks.
	SSN       string    `json:"-" gorm:"column:ssn;not null"`
	SSNHash   string    `json:"-" gorm:"column:ssn_hash;uniqueIndex"`
	Address   string    `json:"address" gorm:"not null"`
	City      string    `json:"city" gorm:"not null"`
	State     string    `json:"state" gorm:"not null"`
	ZipCode   string    `json:"zipCode" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}
