package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smunity/smunity/internal/models"
)

// providerUser mirrors the user object returned by the identity provider's
// session-check endpoint.
type providerUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	AccountType   string `json:"accountType"`
	EmailVerified bool   `json:"emailVerified"`
}

// sessionEnvelope covers both response shapes the provider emits: a flat
// {"user": {...}} and a nested {"data": {"user": {...}}}. The provider's
// shape is not stable across its endpoints, so both are accepted.
type sessionEnvelope struct {
	User *providerUser `json:"user"`
	Data *struct {
		User *providerUser `json:"user"`
	} `json:"data"`
}

// normalize flattens either envelope shape into a single Identity. It returns
// false when no user object is present in either position.
func (e *sessionEnvelope) normalize() (*Identity, bool) {
	user := e.User
	if user == nil && e.Data != nil {
		user = e.Data.User
	}
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return nil, false
	}

	return &Identity{
		UserID:        user.ID,
		Email:         strings.ToLower(strings.TrimSpace(user.Email)),
		AccountType:   models.AccountType(user.AccountType),
		EmailVerified: user.EmailVerified,
	}, true
}

// RemoteResolver resolves identities by forwarding request credentials to an
// external identity provider's session-check endpoint.
type RemoteResolver struct {
	client     *resty.Client
	sessionURL string
}

// NewRemoteResolver builds a resolver that calls the given session endpoint.
func NewRemoteResolver(baseURL string, timeout time.Duration) *RemoteResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &RemoteResolver{
		client:     client,
		sessionURL: "/api/auth/get-session",
	}
}

// Resolve forwards the raw credential material unchanged and flattens the
// provider's response. Every failure mode (network, non-2xx, malformed body,
// missing user) collapses to "no identity"; errors are never propagated.
func (r *RemoteResolver) Resolve(ctx context.Context, cred Credential) (*Identity, bool) {
	req := r.client.R().SetContext(ctx)

	if token := strings.TrimSpace(cred.BearerToken); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if cookie := strings.TrimSpace(cred.Cookie); cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	var envelope sessionEnvelope
	resp, err := req.SetResult(&envelope).Get(r.sessionURL)
	if err != nil || !resp.IsSuccess() {
		return nil, false
	}

	return envelope.normalize()
}
