package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smunity/smunity/internal/models"
	apperrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/metrics"
)

// DefaultInstitutionalDomain is the email domain whose owners may always sign
// up as students.
const DefaultInstitutionalDomain = "smu.edu.sg"

// Effect is the outcome of a guard evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Decision is the guard's verdict for one request. RedirectTo is advisory:
// the guard never navigates, the presentation layer does.
type Decision struct {
	Effect     Effect
	Err        *apperrors.AppError
	RedirectTo string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Effect == EffectAllow
}

// GuardConfig carries the tunable policy inputs.
type GuardConfig struct {
	InstitutionalDomain string
	Clock               func() time.Time
}

// Guard evaluates role-based access decisions and the sign-up gating policy.
type Guard struct {
	db     *gorm.DB
	domain string
	now    func() time.Time
}

// NewGuard constructs a Guard. The database handle is used only for the
// organiser-invite lookup during sign-up gating.
func NewGuard(db *gorm.DB, cfg GuardConfig) (*Guard, error) {
	if db == nil {
		return nil, errors.New("guard: db is required")
	}

	domain := strings.ToLower(strings.TrimSpace(cfg.InstitutionalDomain))
	if domain == "" {
		domain = DefaultInstitutionalDomain
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &Guard{db: db, domain: domain, now: now}, nil
}

// Authorize checks a resolved identity against the route's allowed role set.
// requestedPath is carried into the login redirect so the presentation layer
// can return the user after sign-in.
func (g *Guard) Authorize(identity *Identity, requestedPath string, allowed ...models.AccountType) Decision {
	if identity == nil {
		metrics.GuardDecisions.WithLabelValues("unauthenticated").Inc()
		return Decision{
			Effect:     EffectDeny,
			Err:        apperrors.ErrUnauthenticated,
			RedirectTo: loginRedirect(requestedPath),
		}
	}

	for _, role := range allowed {
		if identity.AccountType == role {
			metrics.GuardDecisions.WithLabelValues("allow").Inc()
			return Decision{Effect: EffectAllow}
		}
	}

	metrics.GuardDecisions.WithLabelValues("forbidden").Inc()
	return Decision{
		Effect:     EffectDeny,
		Err:        apperrors.ErrForbidden,
		RedirectTo: identity.AccountType.HomePath(),
	}
}

// AuthorizeSignUp decides whether an email may register and with which role.
// Institutional-domain addresses always register as students, independent of
// invite state. Any other address requires an organiser invite that is
// approved and unexpired at the time of the attempt; the invite is matched by
// case-insensitive email equality and is not consumed.
func (g *Guard) AuthorizeSignUp(ctx context.Context, email string) (models.AccountType, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.NewBadRequest("email is required")
	}

	if strings.HasSuffix(email, "@"+g.domain) {
		return models.AccountStudent, nil
	}

	var invite models.OrganiserInvite
	err := g.db.WithContext(ctx).
		Where("LOWER(email) = ? AND approved = ? AND expires_at > ?", email, true, g.now()).
		Take(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.ErrInviteRequired
	}
	if err != nil {
		return "", fmt.Errorf("guard: lookup invite: %w", err)
	}

	return models.AccountOrganisation, nil
}

func loginRedirect(requestedPath string) string {
	path := strings.TrimSpace(requestedPath)
	if path == "" || path == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(path)
}
