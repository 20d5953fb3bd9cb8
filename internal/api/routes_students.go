package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/handlers"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
)

func registerStudentRoutes(
	api *gin.RouterGroup,
	guard *iauth.Guard,
	projects *handlers.ProjectHandler,
	applications *handlers.ApplicationHandler,
) {
	requireStudent := middleware.RequireRoles(guard, models.AccountStudent)

	// Bookmark toggles live under the public project path but stay
	// student-only.
	api.POST("/projects/:id/save", requireStudent, projects.Save)
	api.DELETE("/projects/:id/save", requireStudent, projects.Unsave)

	group := api.Group("/students")
	group.Use(requireStudent)
	{
		group.GET("/saved-projects", projects.ListSaved)
		group.GET("/applications", applications.ListMine)
		group.POST("/applications", applications.Apply)
		group.POST("/applications/:id/withdraw", applications.Withdraw)
	}
}
