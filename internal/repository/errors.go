package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateUsername is returned when the unique username index rejects an insert.
var ErrDuplicateUsername = errors.New("username already exists")

// isUniqueViolation reports whether err came from a unique constraint. gorm
// translates most driver errors into ErrDuplicatedKey; the message checks
// cover drivers that do not.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
