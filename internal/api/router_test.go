package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/database/testutil"
	"github.com/smunity/smunity/internal/models"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	guard, err := iauth.NewGuard(db, iauth.GuardConfig{})
	require.NoError(t, err)

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret-router-test-se"})
	require.NoError(t, err)

	sessions, err := iauth.NewSessionService(db, jwtService, iauth.SessionConfig{})
	require.NoError(t, err)

	router, err := NewRouter(Deps{
		DB:       db,
		Guard:    guard,
		Resolver: iauth.NewLocalResolver(db, jwtService),
		Sessions: sessions,
	})
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signUpStudent(t *testing.T, router *gin.Engine) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "jamie@smu.edu.sg",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.AccessToken)
	return payload.Data.AccessToken
}

func TestHealthAndBrowseArePublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/students/applications", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var payload struct {
		Error struct {
			RedirectTo string `json:"redirect_to"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "/login?next=%2Fapi%2Fstudents%2Fapplications", payload.Error.RedirectTo)
}

func TestStudentCannotReachAdminRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := signUpStudent(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/admin/invites", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var payload struct {
		Error struct {
			RedirectTo string `json:"redirect_to"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "/dashboard", payload.Error.RedirectTo)
}

func TestStudentCanReadOwnApplications(t *testing.T) {
	router := newTestRouter(t)
	token := signUpStudent(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/students/applications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSessionShape(t *testing.T) {
	router := newTestRouter(t)
	token := signUpStudent(t, router)

	// Authenticated requests receive the nested {data:{user:{...}}} shape.
	rec := doJSON(t, router, http.MethodGet, "/api/auth/get-session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "jamie@smu.edu.sg", payload.Data.User["email"])
	require.Equal(t, "student", payload.Data.User["accountType"])

	// Unauthenticated requests get an empty success body, not an error.
	rec = doJSON(t, router, http.MethodGet, "/api/auth/get-session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSessionFeedsRemoteResolver(t *testing.T) {
	router := newTestRouter(t)
	token := signUpStudent(t, router)

	// One instance can act as another's identity provider: the session
	// resolver must recover the full identity from the get-session body.
	server := httptest.NewServer(router)
	defer server.Close()

	resolver := iauth.NewRemoteResolver(server.URL, time.Second)

	identity, ok := resolver.Resolve(context.Background(), iauth.Credential{BearerToken: token})
	require.True(t, ok)
	require.Equal(t, "jamie@smu.edu.sg", identity.Email)
	require.Equal(t, models.AccountStudent, identity.AccountType)

	_, ok = resolver.Resolve(context.Background(), iauth.Credential{BearerToken: "garbage"})
	require.False(t, ok)
}
