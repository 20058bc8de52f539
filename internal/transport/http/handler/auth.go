package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"notekeeper/internal/app"
	"notekeeper/internal/observability"
	"notekeeper/internal/transport/http/middleware"
	"notekeeper/internal/transport/http/response"
)

type AuthHandler struct {
	accounts *app.AccountService
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func NewAuthHandler(accounts *app.AccountService, metrics *observability.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	data := readObject(c)
	username, _ := stringField(data, "username")
	password, _ := stringField(data, "password")
	confirmation, _ := stringField(data, "password_confirmation")

	user, err := h.accounts.Register(c.Request.Context(), app.RegisterInput{
		Username:             username,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		h.metrics.AuthEvent(observability.AuthEventSignup, false)
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			response.Errors(c, http.StatusUnprocessableEntity, verr.Messages)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register user failed", "error", err)
		response.Internal(c)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	h.metrics.AuthEvent(observability.AuthEventSignup, true)
	response.Created(c, toUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	data := readObject(c)
	username, _ := stringField(data, "username")
	password, _ := stringField(data, "password")

	user, err := h.accounts.Authenticate(c.Request.Context(), username, password)
	if err == nil && user == nil {
		err = app.ErrInvalidCredential
	}
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			h.metrics.AuthEvent(observability.AuthEventLogin, false)
			response.Error(c, http.StatusUnauthorized, response.MsgInvalidCredentials)
		default:
			h.logger.ErrorContext(c.Request.Context(), "authenticate user failed", "error", err)
			response.Internal(c)
		}
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	h.metrics.AuthEvent(observability.AuthEventLogin, true)
	response.OK(c, toUserResponse(user))
}

// CheckSession answers 200 either way; anonymous callers get an empty object.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	sc := middleware.CurrentSession(c)
	if sc == nil {
		response.OK(c, gin.H{})
		return
	}
	userID, ok := sc.Current()
	if !ok {
		response.OK(c, gin.H{})
		return
	}

	user, err := h.accounts.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "load session user failed", "user_id", userID, "error", err)
		response.Internal(c)
		return
	}
	if user == nil {
		response.OK(c, gin.H{})
		return
	}
	response.OK(c, toUserResponse(user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sc := middleware.CurrentSession(c); sc != nil {
		if err := sc.End(c.Request.Context()); err != nil {
			h.logger.WarnContext(c.Request.Context(), "end session failed", "error", err)
		}
	}
	middleware.SaveSession(c)
	h.metrics.AuthEvent(observability.AuthEventLogout, true)
	response.NoContent(c)
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) bool {
	sc := middleware.CurrentSession(c)
	if sc == nil {
		h.logger.ErrorContext(c.Request.Context(), "session middleware missing")
		response.Internal(c)
		return false
	}
	if err := sc.Start(c.Request.Context(), userID); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "start session failed", "user_id", userID, "error", err)
		response.Internal(c)
		return false
	}
	middleware.SaveSession(c)
	return true
}
