package rpc

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
)

// Context is the per-request bundle handed to middleware and procedures.
// It embeds the request's context.Context so it can be passed to any blocking call.
type Context struct {
	context.Context

	DB       *gorm.DB
	Headers  http.Header
	Path     string
	Identity *identity.Identity // set by the authentication gate
}

// WithIdentity returns an augmented copy of the context carrying id
func (c *Context) WithIdentity(id *identity.Identity) *Context {
	next := *c
	next.Identity = id
	next.Context = identity.WithIdentity(c.Context, id)
	return &next
}
