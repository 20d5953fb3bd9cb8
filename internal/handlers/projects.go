package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/internal/services"
	appErrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/response"
)

// ProjectHandler exposes the public browse surface and the organisation's
// own listing management.
type ProjectHandler struct {
	projects *services.ProjectService
	saved    *services.SavedProjectService
}

func NewProjectHandler(projects *services.ProjectService, saved *services.SavedProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects, saved: saved}
}

type createProjectRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Summary     string     `json:"summary" validate:"omitempty,max=500"`
	Description string     `json:"description"`
	SlotsTotal  int        `json:"slots_total" validate:"omitempty,min=0"`
	Location    string     `json:"location" validate:"omitempty,max=200"`
	Tags        []string   `json:"tags" validate:"omitempty,max=10,dive,max=40"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateProjectRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Summary     *string  `json:"summary" validate:"omitempty,max=500"`
	Description *string  `json:"description"`
	SlotsTotal  *int     `json:"slots_total" validate:"omitempty,min=0"`
	Location    *string  `json:"location" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
}

type transitionProjectRequest struct {
	Status string `json:"status" validate:"required,oneof=published closed archived"`
}

// GET /api/projects
func (h *ProjectHandler) Browse(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 20)

	projects, total, err := h.projects.ListPublished(requestContext(c), services.ListProjectsOptions{
		Page:     page,
		PageSize: perPage,
		Query:    c.Query("q"),
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"projects": projects}, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   int(total),
	})
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.GetPublished(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// POST /api/projects/:id/save
func (h *ProjectHandler) Save(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	if err := h.saved.Save(requestContext(c), identity.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// DELETE /api/projects/:id/save
func (h *ProjectHandler) Unsave(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	if err := h.saved.Unsave(requestContext(c), identity.UserID, c.Param("id")); err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": false})
}

// GET /api/students/saved-projects
func (h *ProjectHandler) ListSaved(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	saved, err := h.saved.List(requestContext(c), identity.UserID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved_projects": saved})
}

// GET /api/organisations/projects
func (h *ProjectHandler) ListOwned(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	projects, err := h.projects.ListByOwner(requestContext(c), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

// POST /api/organisations/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req createProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}

	project, err := h.projects.Create(requestContext(c), identity.UserID, services.CreateProjectInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		SlotsTotal:  req.SlotsTotal,
		Location:    req.Location,
		Tags:        req.Tags,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"project": project})
}

// PATCH /api/organisations/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req updateProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}

	project, err := h.projects.Update(requestContext(c), identity.UserID, c.Param("id"), services.UpdateProjectInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		SlotsTotal:  req.SlotsTotal,
		Location:    req.Location,
		Tags:        req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// POST /api/organisations/projects/:id/transition
func (h *ProjectHandler) Transition(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req transitionProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}

	next := models.ProjectStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	project, err := h.projects.Transition(requestContext(c), identity.UserID, c.Param("id"), next)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}
