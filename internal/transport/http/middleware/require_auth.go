package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"notekeeper/internal/model"
	"notekeeper/internal/transport/http/response"
)

const ContextUserKey = "current_user"

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// RequireAuth rejects the request unless its session names a user that
// still exists.
func RequireAuth(users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := CurrentSession(c)
		if sc == nil {
			response.Abort(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		userID, ok := sc.Current()
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "load session user failed", "user_id", userID, "error", err)
			response.Abort(c, http.StatusInternalServerError, response.MsgInternalServer)
			return
		}
		if user == nil {
			response.Abort(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
