package handler

import (
	"github.com/gin-gonic/gin"

	"notekeeper/internal/transport/http/response"
)

func Index(c *gin.Context) {
	response.OK(c, gin.H{"message": "API is running"})
}
