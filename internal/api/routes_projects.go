package api

import (
	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/internal/handlers"
)

// registerPublicRoutes mounts the unauthenticated browse surface. The
// listing itself filters out drafts and suspended organisations.
func registerPublicRoutes(api *gin.RouterGroup, projects *handlers.ProjectHandler) {
	group := api.Group("/projects")
	{
		group.GET("", projects.Browse)
		group.GET("/:id", projects.Get)
	}
}
