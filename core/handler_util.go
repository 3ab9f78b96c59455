package core

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondStoreError maps repository errors onto HTTP statuses. Unexpected
// errors are logged server-side and surfaced as a generic 500 so internal
// details never reach the client.
func respondStoreError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
	case errors.Is(err, ErrConflict):
		respondError(c, http.StatusConflict, "CONFLICT", "already exists")
	default:
		log.Printf("store error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "storage failure")
	}
}
