package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
)

// Identity is the normalized authenticated principal used by the access
// guard. All identity-provider response shapes flatten into this record.
type Identity struct {
	UserID        string             `json:"id"`
	Email         string             `json:"email"`
	AccountType   models.AccountType `json:"account_type"`
	EmailVerified bool               `json:"email_verified"`
}

// Credential carries the opaque material extracted from an inbound request.
// It is passed through to the identity provider unchanged.
type Credential struct {
	BearerToken string
	Cookie      string
}

// SessionResolver turns request credentials into an Identity. Resolution
// never fails hard: any provider, network, or parse error yields (nil, false)
// and callers treat the request as unauthenticated.
type SessionResolver interface {
	Resolve(ctx context.Context, cred Credential) (*Identity, bool)
}

// LocalResolver resolves identities from access tokens issued by this
// process, validating the JWT and loading the backing user row.
type LocalResolver struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewLocalResolver constructs a resolver backed by the local JWT service.
func NewLocalResolver(db *gorm.DB, jwt *JWTService) *LocalResolver {
	return &LocalResolver{db: db, jwt: jwt}
}

// Resolve validates the bearer token and loads the user it names. Inactive
// accounts resolve to no identity.
func (r *LocalResolver) Resolve(ctx context.Context, cred Credential) (*Identity, bool) {
	token := strings.TrimSpace(cred.BearerToken)
	if token == "" {
		token = strings.TrimSpace(cred.Cookie)
	}
	if token == "" {
		return nil, false
	}

	claims, err := r.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, false
	}
	if !user.IsActive {
		return nil, false
	}

	return &Identity{
		UserID:        user.ID,
		Email:         user.Email,
		AccountType:   user.AccountType,
		EmailVerified: user.EmailVerified,
	}, true
}
