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

// AdminHandler groups moderation endpoints: organisation suspension,
// organiser invites, and the audit trail.
type AdminHandler struct {
	organisations *services.OrganisationService
	invites       *services.InviteService
	users         *services.UserService
	audit         *services.AuditService
}

func NewAdminHandler(
	organisations *services.OrganisationService,
	invites *services.InviteService,
	users *services.UserService,
	audit *services.AuditService,
) *AdminHandler {
	return &AdminHandler{
		organisations: organisations,
		invites:       invites,
		users:         users,
		audit:         audit,
	}
}

type issueInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type inviteDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	InvitedBy string    `json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func toInviteDTO(invite *models.OrganiserInvite, now time.Time) inviteDTO {
	status := "active"
	if !invite.UsableAt(now) {
		status = "expired"
	}
	return inviteDTO{
		ID:        invite.ID,
		Email:     invite.Email,
		InvitedBy: invite.InvitedBy,
		CreatedAt: invite.CreatedAt,
		ExpiresAt: invite.ExpiresAt,
		Status:    status,
	}
}

// GET /api/admin/organisations
func (h *AdminHandler) ListOrganisations(c *gin.Context) {
	summaries, err := h.organisations.List(requestContext(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"organisations": summaries})
}

// POST /api/admin/organisations/:id/suspend
func (h *AdminHandler) SuspendOrganisation(c *gin.Context) {
	h.setSuspended(c, true)
}

// POST /api/admin/organisations/:id/reactivate
func (h *AdminHandler) ReactivateOrganisation(c *gin.Context) {
	h.setSuspended(c, false)
}

func (h *AdminHandler) setSuspended(c *gin.Context, suspended bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	err := h.organisations.SetSuspended(requestContext(c), c.Param("id"), suspended, identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.organisations.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"organisation": profile})
}

// POST /api/admin/invites
func (h *AdminHandler) IssueInvite(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req issueInviteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	invite, token, err := h.invites.Issue(requestContext(c), req.Email, identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"invite": toInviteDTO(invite, time.Now()),
		"token":  token,
	})
}

// GET /api/admin/invites
func (h *AdminHandler) ListInvites(c *gin.Context) {
	invites, err := h.invites.List(requestContext(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	now := time.Now()
	items := make([]inviteDTO, 0, len(invites))
	for i := range invites {
		items = append(items, toInviteDTO(&invites[i], now))
	}

	response.Success(c, http.StatusOK, gin.H{"invites": items})
}

// DELETE /api/admin/invites/:id
func (h *AdminHandler) RevokeInvite(c *gin.Context) {
	if err := h.invites.Revoke(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}

// POST /api/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var req setActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.users.SetActive(requestContext(c), c.Param("id"), req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": req.Active})
}

// GET /api/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	opts := services.AuditListOptions{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "per_page", 50),
		Filters: services.AuditFilters{
			UserID:   strings.TrimSpace(c.Query("user_id")),
			Action:   strings.TrimSpace(c.Query("action")),
			Result:   strings.TrimSpace(c.Query("result")),
			Resource: strings.TrimSpace(c.Query("resource")),
		},
	}

	logs, total, err := h.audit.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"audit_logs": logs}, &response.Meta{
		Page:    opts.Page,
		PerPage: opts.PageSize,
		Total:   int(total),
	})
}
