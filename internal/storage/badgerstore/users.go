package badgerstore

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
	"github.com/polkiloo/ocexchange/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	emailKey := compositeKey(userEmailsPrefix, user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.storage.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey); err == nil {
			return domainErrors.ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return err
		}
		return setJSON(txn, compositeKey(usersPrefix, user.ID), user)
	})
	if err != nil {
		// a concurrent registration of the same email loses the commit race
		if errors.Is(err, domainErrors.ErrConflict) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(compositeKey(userEmailsPrefix, email))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, compositeKey(usersPrefix, string(id)), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.storage.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, compositeKey(usersPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetVerificationCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	return r.modify(ctx, id, func(user *model.User) {
		user.VerificationCodeHash = codeHash
		user.VerificationExpiresAt = &expiresAt
	})
}

func (r *userRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	return r.modify(ctx, id, func(user *model.User) {
		user.VerifiedAt = &at
		user.VerificationCodeHash = ""
		user.VerificationExpiresAt = nil
	})
}

func (r *userRepository) modify(ctx context.Context, id string, fn func(*model.User)) error {
	key := compositeKey(usersPrefix, id)
	return r.storage.update(ctx, func(txn *badger.Txn) error {
		var user model.User
		if err := getJSON(txn, key, &user); err != nil {
			return err
		}
		fn(&user)
		return setJSON(txn, key, user)
	})
}
