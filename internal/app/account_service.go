package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notekeeper/internal/model"
	"notekeeper/internal/repository"
)

const (
	MsgUsernameRequired = "Username is required."
	MsgPasswordRequired = "Password is required."
	MsgPasswordMismatch = "Passwords do not match."
	MsgUsernameTaken    = "Username already taken."
	MsgPasswordTooLong  = "Password must be at most 72 bytes."
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

type AccountService struct {
	users  UserStore
	hasher PasswordHasher
}

type RegisterInput struct {
	Username             string
	Password             string
	PasswordConfirmation string
}

func NewAccountService(users UserStore, hasher PasswordHasher) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
	}
}

// Register validates the whole input before touching storage so that every
// problem is reported at once. The uniqueness check only runs for a
// non-empty username.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)

	verr := &ValidationError{}
	if username == "" {
		verr.add(MsgUsernameRequired)
	}
	if input.Password == "" {
		verr.add(MsgPasswordRequired)
	}
	if input.Password != input.PasswordConfirmation {
		verr.add(MsgPasswordMismatch)
	}
	if username != "" {
		existing, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.add(MsgUsernameTaken)
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, &ValidationError{Messages: []string{MsgPasswordTooLong}}
		}
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// lost a signup race to another request
			return nil, &ValidationError{Messages: []string{MsgUsernameTaken}}
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns (nil, nil) for an unknown username and for a wrong
// password alike.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

func (s *AccountService) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return s.users.GetByID(ctx, id)
}
