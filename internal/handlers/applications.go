package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/internal/services"
	appErrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/response"
)

// ApplicationHandler exposes the application workflow for students and
// organisations.
type ApplicationHandler struct {
	applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

type applyRequest struct {
	ProjectID  string `json:"project_id" validate:"required,uuid4"`
	Motivation string `json:"motivation" validate:"omitempty,max=2000"`
}

type decideRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected confirmed"`
}

// POST /api/students/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req applyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	application, err := h.applications.Apply(requestContext(c), identity.UserID, req.ProjectID, req.Motivation)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"application": application})
}

// GET /api/students/applications
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	applications, err := h.applications.ListByApplicant(requestContext(c), identity.UserID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"applications": applications})
}

// POST /api/students/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	application, err := h.applications.Withdraw(requestContext(c), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"application": application})
}

// GET /api/organisations/projects/:id/applications
func (h *ApplicationHandler) ListForProject(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	applications, err := h.applications.ListByProject(requestContext(c), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"applications": applications})
}

// POST /api/organisations/applications/:id/decide
func (h *ApplicationHandler) Decide(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req decideRequest
	if !bindAndValidate(c, &req) {
		return
	}

	next := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	application, err := h.applications.Decide(requestContext(c), identity.UserID, c.Param("id"), next)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"application": application})
}

// POST /api/admin/applications/:id/cancel
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	application, err := h.applications.Cancel(requestContext(c), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"application": application})
}
