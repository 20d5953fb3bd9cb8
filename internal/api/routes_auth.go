package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/handlers"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
)

func registerAuthRoutes(api *gin.RouterGroup, guard *iauth.Guard, auth *handlers.AuthHandler) {
	group := api.Group("/auth")
	{
		group.POST("/signup", auth.SignUp)
		group.POST("/login", auth.Login)
		group.POST("/refresh", auth.Refresh)
		group.POST("/logout", auth.Logout)
		group.GET("/get-session", auth.GetSession)

		group.GET("/me",
			middleware.RequireRoles(guard, models.AccountStudent, models.AccountOrganisation, models.AccountAdmin),
			auth.Me)
	}
}
