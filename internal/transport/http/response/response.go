package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidCredentials = "Invalid username or password"
	MsgNoteNotFound       = "Note not found"
	MsgInternalServer     = "Internal server error"
)

type ErrorBody struct {
	Error string `json:"error"`
}

type ErrorsBody struct {
	Errors []string `json:"errors"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// Errors reports validation problems as a list, in the order found.
func Errors(c *gin.Context, httpStatus int, messages []string) {
	c.JSON(httpStatus, ErrorsBody{Errors: messages})
}

func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: message})
}

func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternalServer)
}
