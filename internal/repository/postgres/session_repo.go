package postgres

import (
	"context"
	"time"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("token = ?", token).
		Update("expires_at", expiresAt).Error
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, "user_id = ?", userID).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, "expires_at < ?", time.Now()).Error
}
