package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"notekeeper/internal/model"
)

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type noteResponse struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
	UserID    uint    `json:"user_id"`
}

type notePageResponse struct {
	Items   []noteResponse `json:"items"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Total   int64          `json:"total"`
	Pages   int            `json:"pages"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

func toNoteResponse(n *model.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: formatTimestamp(n.CreatedAt),
		UpdatedAt: formatTimestamp(n.UpdatedAt),
		UserID:    n.UserID,
	}
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

// readObject decodes the body as a JSON object. A missing, malformed or
// non-object body reads as an empty object.
func readObject(c *gin.Context) map[string]any {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || data == nil {
		return map[string]any{}
	}
	return data
}

// stringField returns the value under key when it is a JSON string.
func stringField(data map[string]any, key string) (string, bool) {
	s, ok := data[key].(string)
	return s, ok
}
