package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a handler reporting that the named service area is up.
func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": service + " API is working"})
	}
}
