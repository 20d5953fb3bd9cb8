package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/middleware"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/internal/services"
	appErrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/metrics"
	"github.com/smunity/smunity/pkg/response"
)

// AuthHandler exposes registration, login, and session endpoints.
type AuthHandler struct {
	users    *services.UserService
	sessions *iauth.SessionService
}

func NewAuthHandler(users *services.UserService, sessions *iauth.SessionService) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type userDTO struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	AccountType   string `json:"account_type"`
	EmailVerified bool   `json:"email_verified"`
}

// sessionUser is the identity-provider contract shape that session resolvers
// consume. Its field casing follows the provider contract, not the rest of
// the API surface.
type sessionUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	AccountType   string `json:"accountType"`
	EmailVerified bool   `json:"emailVerified"`
}

type sessionResponse struct {
	User         userDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	RedirectTo   string  `json:"redirect_to"`
}

func toUserDTO(user *models.User) userDTO {
	return userDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AccountType:   string(user.AccountType),
		EmailVerified: user.EmailVerified,
	}
}

func toSessionUser(user *models.User) sessionUser {
	return sessionUser{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AccountType:   string(user.AccountType),
		EmailVerified: user.EmailVerified,
	}
}

// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.SignUp(requestContext(c), services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	pair, _, err := h.sessions.CreateSession(user, sessionMetadata(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusCreated, sessionResponse{
		User:         toUserDTO(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RedirectTo:   user.AccountType.HomePath(),
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Email, req.Password, c.ClientIP())
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	pair, _, err := h.sessions.CreateSession(user, sessionMetadata(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, sessionResponse{
		User:         toUserDTO(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RedirectTo:   user.AccountType.HomePath(),
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, session, err := h.sessions.RefreshSession(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, iauth.ErrSessionNotFound),
			errors.Is(err, iauth.ErrSessionRevoked),
			errors.Is(err, iauth.ErrSessionExpired),
			errors.Is(err, iauth.ErrSessionInvalidToken):
			response.Error(c, appErrors.ErrUnauthenticated)
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	payload := gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}
	if session.User != nil {
		payload["user"] = toUserDTO(session.User)
	}

	response.Success(c, http.StatusOK, payload)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.sessions.RevokeByRefreshToken(req.RefreshToken); err != nil &&
		!errors.Is(err, iauth.ErrSessionNotFound) {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	user, err := h.users.GetByID(requestContext(c), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(user)})
}

// GET /api/auth/get-session
//
// Returns the current session in the provider shape consumed by the session
// resolver. Unauthenticated requests receive an empty body rather than an
// error so probing clients cannot distinguish missing from invalid sessions.
func (h *AuthHandler) GetSession(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Success(c, http.StatusOK, gin.H{})
		return
	}

	user, err := h.users.GetByID(requestContext(c), identity.UserID)
	if err != nil {
		response.Success(c, http.StatusOK, gin.H{})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toSessionUser(user)})
}

func sessionMetadata(c *gin.Context) iauth.SessionMetadata {
	return iauth.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
