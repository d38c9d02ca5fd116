package repository

import (
	"context"
	"time"

	"github.com/polkiloo/ocexchange/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetVerificationCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id string, at time.Time) error
}
