package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kuowesley/securebank-technical-challenge/internal/config"
	"github.com/kuowesley/securebank-technical-challenge/internal/crypto"
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/repository"
	"github.com/kuowesley/securebank-technical-challenge/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// SessionDuration is the lifetime of a freshly issued or renewed session.
	SessionDuration = time.Hour
	// RenewalThreshold triggers a sliding extension when less than this much
	// lifetime remains.
	RenewalThreshold = 30 * time.Minute
	// SafetyWindow is how close to expiry a session is already treated as
	// unauthenticated, so a request never rides a token that dies mid-flight.
	SafetyWindow = 2 * time.Minute
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	crypto      *crypto.Service
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cryptoSvc *crypto.Service, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		crypto:      cryptoSvc,
		cfg:         cfg,
	}
}

type SignupInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	DateOfBirth string
	SSN         string
	Address     string
	City        string
	State       string
	ZipCode     string
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if err := validateSignup(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	ssnHash := s.crypto.Hash(input.SSN)
	exists, err = s.userRepo.ExistsBySSNHash(ctx, ssnHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrSSNExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	encryptedSSN, err := s.crypto.Encrypt(input.SSN)
	if err != nil {
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		// validateSignup already rejected malformed dates
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  validation.NormalizePhoneNumber(input.PhoneNumber),
		DateOfBirth:  datatypes.Date(dob),
		SSN:          encryptedSSN,
		SSNHash:      ssnHash,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.createSession(ctx, user)
}

func validateSignup(input SignupInput) error {
	verr := &ValidationError{}

	if r := validation.ValidateEmail(input.Email); !r.Valid {
		verr.add("email", r.Message)
	}
	if r := validation.ValidatePassword(input.Password); !r.Valid {
		verr.add("password", r.Errors...)
	}
	if r := validation.ValidateDateOfBirth(input.DateOfBirth); !r.Valid {
		verr.add("dateOfBirth", r.Message)
	}
	if r := validation.ValidatePhoneNumber(input.PhoneNumber); !r.Valid {
		verr.add("phoneNumber", r.Message)
	}
	if r := validation.ValidateState(input.State); !r.Valid {
		verr.add("state", r.Message)
	}

	return verr.orNil()
}

// Login verifies credentials and rotates the user's session. An unknown
// email and a wrong password both return ErrInvalidCredentials so callers
// cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// createSession enforces the single-active-session policy: all prior
// sessions for the user are removed before the new one is written. Expired
// rows from any user are swept opportunistically at the same time.
func (s *AuthService) createSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	if err := s.sessionRepo.DeleteExpired(ctx); err != nil {
		// Best-effort; ResolveSession checks expiry on every read.
		log.Printf("ERROR [auth.createSession] expired session sweep failed: %v", err)
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(SessionDuration)
	token, err := s.signToken(user.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"userId"`
}

func (s *AuthService) signToken(userID uint, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two logins in the same second from minting the same
			// token, which would collide on the sessions unique index.
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) verifyToken(tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// ResolveSession turns a session cookie value into the authenticated user.
// Sessions inside the safety window count as expired. When less than
// RenewalThreshold remains, the expiry slides forward by SessionDuration;
// renewed reports whether the caller should re-issue the cookie. The
// renewal write is best-effort: losing it only shortens the session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (user *domain.User, renewed bool, err error) {
	claims, err := s.verifyToken(token)
	if err != nil {
		return nil, false, domain.ErrUnauthorized
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, domain.ErrUnauthorized
		}
		return nil, false, err
	}

	now := time.Now()
	if !session.ExpiresAt.After(now.Add(SafetyWindow)) {
		return nil, false, domain.ErrSessionExpired
	}

	user, err = s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, domain.ErrUnauthorized
		}
		return nil, false, err
	}

	if session.ExpiresAt.Sub(now) < RenewalThreshold {
		if err := s.sessionRepo.UpdateExpiry(ctx, token, now.Add(SessionDuration)); err != nil {
			log.Printf("ERROR [auth.ResolveSession] session renewal failed: %v", err)
		} else {
			renewed = true
		}
	}

	return user, renewed, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// DecryptSSN exposes the plaintext SSN only at the service boundary, for
// callers that legitimately need it (e.g. identity verification flows).
func (s *AuthService) DecryptSSN(user *domain.User) (string, error) {
	return s.crypto.Decrypt(user.SSN)
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}
