package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Identity is the caller established from a verified session
type Identity struct {
	UserID    string
	SessionID string
	Email     string // optional session claim, may be empty
}

// Profile is the identity provider's view of a user.
// Nil fields were not reported by the provider.
type Profile struct {
	UserID    string
	Email     *string
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// Provider resolves sessions and looks up user profiles at the external identity service
type Provider interface {
	// ResolveSession returns ErrNoSession when the headers carry no valid session
	ResolveSession(ctx context.Context, headers http.Header) (*Identity, error)
	GetUser(ctx context.Context, userID string) (*Profile, error)
}

// PrimaryEmail returns the email, or false when the provider reported none
func (p *Profile) PrimaryEmail() (string, bool) {
	if p == nil || p.Email == nil {
		return "", false
	}
	email := strings.TrimSpace(*p.Email)
	return email, email != ""
}

func (p *Profile) FirstNameOrDefault() string { return valueOrEmpty(p.FirstName) }

func (p *Profile) LastNameOrDefault() string { return valueOrEmpty(p.LastName) }

func (p *Profile) ImageURLOrDefault() string { return valueOrEmpty(p.ImageURL) }

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity, if any
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

// Identity errors
var (
	ErrNoSession    = errors.New("no valid session")
	ErrUserNotFound = errors.New("identity provider user not found")
)
