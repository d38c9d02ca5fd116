package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
	"github.com/polkiloo/ocexchange/internal/domain/repository"
	pkgAuth "github.com/polkiloo/ocexchange/internal/pkg/auth"
)

const (
	verificationCodeDigits = 6
	verificationCodeTTL    = 10 * time.Minute
)

// VerificationMailer delivers one-time verification codes.
type VerificationMailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

var validate = validator.New()

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users   repository.UserRepository
	hasher  pkgAuth.PasswordHasher
	tokens  pkgAuth.Strategy
	mailer  VerificationMailer
	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, mailer VerificationMailer) *AuthUseCase {
	return &AuthUseCase{
		users:   users,
		hasher:  hasher,
		tokens:  strategy,
		mailer:  mailer,
		now:     time.Now,
		newCode: generateVerificationCode,
	}
}

// Register creates a new user with email/password and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if validate.Var(email, "required,email") != nil || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrSecretTooLong) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    u.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// RequestVerificationCode stores a fresh one-time code for the user and emails it.
func (u *AuthUseCase) RequestVerificationCode(ctx context.Context, userID string) error {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	code, err := u.newCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	hash, err := u.hasher.Hash(code)
	if err != nil {
		return err
	}

	expiresAt := u.now().UTC().Add(verificationCodeTTL)
	if err := u.users.SetVerificationCode(ctx, usr.ID, hash, expiresAt); err != nil {
		return err
	}

	return u.mailer.SendVerificationCode(ctx, usr.Email, code)
}

// ConfirmVerificationCode marks the user verified when code matches the pending one.
func (u *AuthUseCase) ConfirmVerificationCode(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domainErrors.ErrInvalidVerification
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	now := u.now().UTC()
	if usr.VerificationCodeHash == "" || usr.VerificationExpiresAt == nil || now.After(*usr.VerificationExpiresAt) {
		return domainErrors.ErrInvalidVerification
	}
	if err := u.hasher.Compare(usr.VerificationCodeHash, code); err != nil {
		return domainErrors.ErrInvalidVerification
	}

	return u.users.MarkVerified(ctx, usr.ID, now)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateVerificationCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", verificationCodeDigits, n.Int64()), nil
}
