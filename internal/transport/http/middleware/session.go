package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"notekeeper/internal/session"
)

const (
	ContextSessionKey  = "session"
	contextCookieKey   = "session_cookie"
	SessionTokenHeader = "X-Session-Token"
)

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Session resolves the request credential into a session.Context. The
// cookie is tried first; when it does not name a live session the
// Authorization bearer token is tried next.
func Session(manager *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := loadSession(c, manager, opts.Name)
		c.Set(ContextSessionKey, sc)
		c.Set(contextCookieKey, opts)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.Context {
	if v, ok := c.Get(ContextSessionKey); ok {
		if sc, ok := v.(*session.Context); ok {
			return sc
		}
	}
	return nil
}

// SaveSession writes a started or ended session back to the client. It must
// run before the response body is written.
func SaveSession(c *gin.Context) {
	sc := CurrentSession(c)
	if sc == nil || !sc.Changed() {
		return
	}
	v, _ := c.Get(contextCookieKey)
	opts, _ := v.(CookieOptions)

	cookie := &http.Cookie{
		Name:     opts.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if token := sc.Token(); token != "" {
		cookie.Value = token
		cookie.MaxAge = int(opts.MaxAge.Seconds())
		c.Header(SessionTokenHeader, token)
	} else {
		cookie.MaxAge = -1
	}
	http.SetCookie(c.Writer, cookie)
}

func loadSession(c *gin.Context, manager *session.Manager, cookieName string) *session.Context {
	ctx := c.Request.Context()
	var sc *session.Context
	for _, token := range credentialsFrom(c, cookieName) {
		sc = manager.Load(ctx, token)
		if _, ok := sc.Current(); ok {
			return sc
		}
	}
	if sc == nil {
		sc = manager.Load(ctx, "")
	}
	return sc
}

// credentialsFrom lists the non-empty credentials on the request, cookie
// first.
func credentialsFrom(c *gin.Context, cookieName string) []string {
	var tokens []string
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}

	const prefix = "Bearer "
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		if token := strings.TrimSpace(authHeader[len(prefix):]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
