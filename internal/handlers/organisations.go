package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/services"
	appErrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/response"
)

// OrganisationHandler exposes the organisation's own profile endpoints.
type OrganisationHandler struct {
	organisations *services.OrganisationService
}

func NewOrganisationHandler(organisations *services.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{organisations: organisations}
}

type updateOrgProfileRequest struct {
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Website     *string `json:"website" validate:"omitempty,url,max=300"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// GET /api/organisations/me
func (h *OrganisationHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	profile, err := h.organisations.GetByUserID(requestContext(c), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// PATCH /api/organisations/me
func (h *OrganisationHandler) UpdateMe(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req updateOrgProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.organisations.UpdateProfile(requestContext(c), identity.UserID, services.UpdateProfileInput{
		Phone:       req.Phone,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
