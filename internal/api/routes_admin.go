package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/handlers"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
)

func registerAdminRoutes(
	api *gin.RouterGroup,
	guard *iauth.Guard,
	admin *handlers.AdminHandler,
	applications *handlers.ApplicationHandler,
) {
	group := api.Group("/admin")
	group.Use(middleware.RequireRoles(guard, models.AccountAdmin))
	{
		group.GET("/organisations", admin.ListOrganisations)
		group.POST("/organisations/:id/suspend", admin.SuspendOrganisation)
		group.POST("/organisations/:id/reactivate", admin.ReactivateOrganisation)

		group.GET("/invites", admin.ListInvites)
		group.POST("/invites", admin.IssueInvite)
		group.DELETE("/invites/:id", admin.RevokeInvite)

		group.POST("/users/:id/active", admin.SetUserActive)
		group.POST("/applications/:id/cancel", applications.Cancel)

		group.GET("/audit-logs", admin.ListAuditLogs)
	}
}
