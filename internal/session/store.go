// Package session tracks which user a client is logged in as. The client
// holds a signed token naming an opaque server-side session id; the id maps
// to a user id in a Store.
package session

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid session token")

type Store interface {
	// Create stores a fresh session for userID and returns its id.
	Create(ctx context.Context, userID uint) (string, error)
	// Get reports the user a session belongs to. A missing or expired
	// session is (0, false, nil).
	Get(ctx context.Context, id string) (uint, bool, error)
	Delete(ctx context.Context, id string) error
}
