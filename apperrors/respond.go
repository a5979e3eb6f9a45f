package apperrors

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes a standardized error response and logs internal errors
func Respond(c *gin.Context, err error) {
	code := MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
