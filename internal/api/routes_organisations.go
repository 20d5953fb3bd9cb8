package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/handlers"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
)

func registerOrganisationRoutes(
	api *gin.RouterGroup,
	guard *iauth.Guard,
	organisations *handlers.OrganisationHandler,
	projects *handlers.ProjectHandler,
	applications *handlers.ApplicationHandler,
) {
	group := api.Group("/organisations")
	group.Use(middleware.RequireRoles(guard, models.AccountOrganisation))
	{
		group.GET("/me", organisations.Me)
		group.PATCH("/me", organisations.UpdateMe)

		group.GET("/projects", projects.ListOwned)
		group.POST("/projects", projects.Create)
		group.PATCH("/projects/:id", projects.Update)
		group.POST("/projects/:id/transition", projects.Transition)
		group.GET("/projects/:id/applications", applications.ListForProject)

		group.POST("/applications/:id/decide", applications.Decide)
	}
}
