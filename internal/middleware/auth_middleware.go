package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

// IdentityKey is the gin context key holding the resolved *identity.Identity
const IdentityKey = "identity"

// AuthMiddleware resolves the caller's session through the identity provider
type AuthMiddleware struct {
	provider identity.Provider
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(provider identity.Provider, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
		logger:   logger,
	}
}

// RequireAuth is the authentication gate for protected procedures. Without a session it
// fails with UNAUTHORIZED and the rest of the chain never runs; otherwise the chain
// continues with the identity attached to the context.
func (m *AuthMiddleware) RequireAuth() rpc.Middleware {
	return func(ctx *rpc.Context, next rpc.Next) (any, error) {
		id, err := m.resolve(ctx, ctx.Headers)
		if err != nil {
			return nil, rpc.NewError(rpc.CodeUnauthorized, "You must be logged in", err)
		}

		m.logger.Debug("✅ [Middleware] Session resolved", "user_id", id.UserID, "path", ctx.Path)
		return next(ctx.WithIdentity(id))
	}
}

// RequireSession is the page-level counterpart of RequireAuth for plain gin routes
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.resolve(c.Request.Context(), c.Request.Header)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
			c.Abort()
			return
		}

		c.Set(IdentityKey, id)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(ctx context.Context, headers http.Header) (*identity.Identity, error) {
	id, err := m.provider.ResolveSession(ctx, headers)
	if err != nil {
		if !errors.Is(err, identity.ErrNoSession) {
			m.logger.Warn("⚠️ [Middleware] Session resolution failed", "error", err)
		}
		return nil, err
	}
	if id == nil {
		return nil, identity.ErrNoSession
	}
	return id, nil
}
