package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/handlers"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/services"
)

// Deps carries the shared infrastructure the router wires into handlers.
type Deps struct {
	DB       *gorm.DB
	Guard    *iauth.Guard
	Resolver iauth.SessionResolver
	Sessions *iauth.SessionService
}

// NewRouter builds the Gin engine, wires middleware, and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Guard == nil {
		return nil, fmt.Errorf("guard must be provided")
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("session resolver must be provided")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}

	audit, err := services.NewAuditService(deps.DB)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(deps.DB, deps.Guard, audit)
	if err != nil {
		return nil, err
	}
	organisations, err := services.NewOrganisationService(deps.DB, audit)
	if err != nil {
		return nil, err
	}
	projects, err := services.NewProjectService(deps.DB, audit)
	if err != nil {
		return nil, err
	}
	applications, err := services.NewApplicationService(deps.DB, audit)
	if err != nil {
		return nil, err
	}
	saved, err := services.NewSavedProjectService(deps.DB)
	if err != nil {
		return nil, err
	}
	invites, err := services.NewInviteService(deps.DB, audit)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware. ResolveSession attaches the identity when present;
	// role checks happen per route group.
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.ResolveSession(deps.Resolver))

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(users, deps.Sessions)
	projectHandler := handlers.NewProjectHandler(projects, saved)
	applicationHandler := handlers.NewApplicationHandler(applications)
	organisationHandler := handlers.NewOrganisationHandler(organisations)
	adminHandler := handlers.NewAdminHandler(organisations, invites, users, audit)

	api := r.Group("/api")

	registerAuthRoutes(api, deps.Guard, authHandler)
	registerPublicRoutes(api, projectHandler)
	registerStudentRoutes(api, deps.Guard, projectHandler, applicationHandler)
	registerOrganisationRoutes(api, deps.Guard, organisationHandler, projectHandler, applicationHandler)
	registerAdminRoutes(api, deps.Guard, adminHandler, applicationHandler)

	return r, nil
}
