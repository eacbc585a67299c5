package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/repository/postgres"
	"github.com/kuowesley/securebank-technical-challenge/internal/service"
	"github.com/kuowesley/securebank-technical-challenge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, testDB *testutil.TestDB) *service.AuthService {
	t.Helper()
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewAuthService(repos.User, repos.Session, testutil.NewCryptoService(t), testutil.TestConfig())
}

func validSignupInput() service.SignupInput {
	return service.SignupInput{
		Email:       "john@example.com",
		Password:    "Str0ng&Secret!pw",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "12125551234",
		DateOfBirth: "1990-06-15",
		SSN:         "123456789",
		Address:     "123 Main St",
		City:        "Anytown",
		State:       "CA",
		ZipCode:     "90001",
	}
}

func TestAuthService_Signup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	t.Run("successful signup", func(t *testing.T) {
		testDB.Truncate(t)

		result, err := authService.Signup(ctx, validSignupInput())
		require.NoError(t, err)
		require.NotNil(t, result.User)
		assert.NotEmpty(t, result.Token)

		// Password stored one-way
		assert.NotEqual(t, "Str0ng&Secret!pw", result.User.PasswordHash)

		// SSN stored as envelope plus blind index, never plaintext
		var stored domain.User
		require.NoError(t, testDB.DB.First(&stored, "email = ?", "john@example.com").Error)
		assert.NotEqual(t, "123456789", stored.SSN)
		assert.NotContains(t, stored.SSN, "123456789")
		assert.NotEmpty(t, stored.SSNHash)
		assert.NotEqual(t, "123456789", stored.SSNHash)

		plaintext, err := authService.DecryptSSN(&stored)
		require.NoError(t, err)
		assert.Equal(t, "123456789", plaintext)
	})

	t.Run("duplicate email", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := authService.Signup(ctx, validSignupInput())
		require.NoError(t, err)

		input := validSignupInput()
		input.SSN = "987654321"
		_, err = authService.Signup(ctx, input)
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("duplicate ssn", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := authService.Signup(ctx, validSignupInput())
		require.NoError(t, err)

		input := validSignupInput()
		input.Email = "jane@example.com"
		_, err = authService.Signup(ctx, input)
		assert.ErrorIs(t, err, domain.ErrSSNExists)
	})

	t.Run("validation failures accumulate per field", func(t *testing.T) {
		testDB.Truncate(t)

		input := validSignupInput()
		input.Email = "not-an-email"
		input.Password = "password"
		input.DateOfBirth = "2020-01-01"
		input.State = "XX"

		_, err := authService.Signup(ctx, input)
		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
		assert.Contains(t, verr.Fields, "dateOfBirth")
		assert.Contains(t, verr.Fields, "state")
		assert.Contains(t, verr.Fields["password"], "Password is too common")
		assert.Contains(t, verr.Fields["password"], "Password must be at least 12 characters")
	})
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "successful login",
			email:    user.Email,
			password: rawPassword,
		},
		{
			name:     "wrong password",
			email:    user.Email,
			password: "wrongpassword",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			// Unknown email reads identically to a wrong password
			name:     "non-existent user",
			email:    "nobody@example.com",
			password: rawPassword,
			wantErr:  domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.Token)
			assert.WithinDuration(t, time.Now().Add(service.SessionDuration), result.ExpiresAt, 5*time.Second)
		})
	}
}

func TestAuthService_SessionSupersession(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("twice@example.com").
		Build(t, testDB.DB)

	first, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)
	second, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// Only the second token resolves
	_, _, err = authService.ResolveSession(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	resolved, _, err := authService.ResolveSession(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_ExpiredSessionSweep(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("sweeper@example.com").
		Build(t, testDB.DB)
	idle, _ := testutil.NewUserBuilder().
		WithEmail("idle@example.com").
		Build(t, testDB.DB)

	stale := &domain.Session{
		UserID:    idle.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, testDB.DB.Create(stale).Error)

	// Minting any session sweeps expired rows, including other users'.
	_, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Session{}).Where("token = ?", "stale-token").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAuthService_ResolveSession(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("resolve@example.com").
		Build(t, testDB.DB)

	setExpiry := func(t *testing.T, token string, expiresAt time.Time) {
		t.Helper()
		require.NoError(t, testDB.DB.Model(&domain.Session{}).
			Where("token = ?", token).
			Update("expires_at", expiresAt).Error)
	}

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := authService.ResolveSession(ctx, "not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("fresh session resolves without renewal", func(t *testing.T) {
		result, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		resolved, renewed, err := authService.ResolveSession(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.False(t, renewed)
	})

	t.Run("session inside safety window is expired", func(t *testing.T) {
		result, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		setExpiry(t, result.Token, time.Now().Add(time.Minute))

		_, _, err = authService.ResolveSession(ctx, result.Token)
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("session below renewal threshold slides forward", func(t *testing.T) {
		result, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		setExpiry(t, result.Token, time.Now().Add(10*time.Minute))

		resolved, renewed, err := authService.ResolveSession(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.True(t, renewed)

		var session domain.Session
		require.NoError(t, testDB.DB.First(&session, "token = ?", result.Token).Error)
		assert.Greater(t, time.Until(session.ExpiresAt), 50*time.Minute)
	})
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(t, testDB)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("logout@example.com").
		Build(t, testDB.DB)

	result, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, user.ID))

	_, _, err = authService.ResolveSession(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
