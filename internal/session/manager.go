package session

import (
	"context"
	"fmt"
	"log/slog"
)

type Manager struct {
	store  Store
	codec  *Codec
	logger *slog.Logger
}

func NewManager(store Store, codec *Codec, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// Load resolves a client credential into a per-request Context. Anything
// short of a valid token naming a live session yields an anonymous Context;
// store failures are logged, not returned.
func (m *Manager) Load(ctx context.Context, token string) *Context {
	c := &Context{manager: m}
	if token == "" {
		return c
	}

	id, err := m.codec.Decode(token)
	if err != nil {
		m.logger.DebugContext(ctx, "rejected session token", "error", err)
		return c
	}

	userID, ok, err := m.store.Get(ctx, id)
	if err != nil {
		m.logger.WarnContext(ctx, "session lookup failed", "error", err)
		return c
	}
	if !ok {
		return c
	}

	c.id = id
	c.userID = userID
	c.token = token
	return c
}

// Context is the session state of one request. It is not safe for
// concurrent use.
type Context struct {
	manager *Manager
	id      string
	userID  uint
	token   string
	changed bool
}

func (c *Context) Current() (uint, bool) {
	return c.userID, c.id != ""
}

// Start binds the context to userID under a brand new session id. A session
// the request arrived with is discarded first.
func (c *Context) Start(ctx context.Context, userID uint) error {
	if c.id != "" {
		if err := c.manager.store.Delete(ctx, c.id); err != nil {
			c.manager.logger.WarnContext(ctx, "discard previous session failed", "error", err)
		}
	}

	id, err := c.manager.store.Create(ctx, userID)
	if err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	token, err := c.manager.codec.Encode(id)
	if err != nil {
		_ = c.manager.store.Delete(ctx, id)
		return err
	}

	c.id = id
	c.userID = userID
	c.token = token
	c.changed = true
	return nil
}

// End logs the context out. Ending an anonymous context is a no-op apart
// from marking the credential for clearing.
func (c *Context) End(ctx context.Context) error {
	var err error
	if c.id != "" {
		err = c.manager.store.Delete(ctx, c.id)
	}
	c.id = ""
	c.userID = 0
	c.token = ""
	c.changed = true
	if err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

// Token is the credential to hand back to the client; empty when anonymous.
func (c *Context) Token() string {
	return c.token
}

// Changed reports whether Start or End ran, meaning the client credential
// must be rewritten.
func (c *Context) Changed() bool {
	return c.changed
}
