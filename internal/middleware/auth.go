package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/models"
	"github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/response"
)

const (
	// CtxIdentityKey stores the resolved *auth.Identity for the request.
	CtxIdentityKey = "authIdentity"
)

// credentialFrom extracts the opaque credential material from the request
// without interpreting it; the resolver forwards it to the identity provider.
func credentialFrom(c *gin.Context) iauth.Credential {
	cred := iauth.Credential{Cookie: c.GetHeader("Cookie")}

	authz := c.GetHeader("Authorization")
	if len(authz) >= 8 && strings.EqualFold(authz[:7], "Bearer ") {
		cred.BearerToken = strings.TrimSpace(authz[7:])
	}

	return cred
}

// ResolveSession attaches the resolved identity to the request context when
// present. It never rejects: unauthenticated requests pass through and are
// stopped later by RequireRoles where a route demands it.
func ResolveSession(resolver iauth.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := resolver.Resolve(c.Request.Context(), credentialFrom(c)); ok {
			c.Set(CtxIdentityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the resolved identity for the request, if any.
func IdentityFrom(c *gin.Context) (*iauth.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*iauth.Identity)
	return identity, ok && identity != nil
}

// RequireRoles enforces the route's allowed-role set via the access guard.
// Denials carry the guard's advisory redirect target in the error body.
func RequireRoles(guard *iauth.Guard, roles ...models.AccountType) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c)

		decision := guard.Authorize(identity, c.Request.URL.Path, roles...)
		if !decision.Allowed() {
			err := decision.Err
			if err == nil {
				err = errors.ErrForbidden
			}
			response.Denied(c, err, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}
