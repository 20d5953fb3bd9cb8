package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext returns the inbound request's context. Handlers built
// without a request, as in some tests, get a background context instead.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
