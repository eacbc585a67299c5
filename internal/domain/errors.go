package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrSSNExists          = errors.New("ssn already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Account errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountTypeExists  = errors.New("account of this type already exists")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrDuplicateAccountNo = errors.New("account number already taken")
)
