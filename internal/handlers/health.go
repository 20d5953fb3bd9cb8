package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/pkg/response"
)

// Health reports service liveness. Kept dependency-free so it answers even
// while the database is unavailable.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"status":  "ok",
			"service": "smunity",
		})
	}
}
