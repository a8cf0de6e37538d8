package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Config is the process-wide procedure configuration. It is built once at startup and
// shared read-only by every router and request.
type Config struct {
	db            *gorm.DB
	logger        *slog.Logger
	exposeErrors  bool
	maxInputBytes int64
}

// NewConfig creates the procedure configuration. When exposeErrors is false, internal
// errors reach the client with a generic message.
func NewConfig(db *gorm.DB, logger *slog.Logger, exposeErrors bool) *Config {
	return &Config{
		db:            db,
		logger:        logger,
		exposeErrors:  exposeErrors,
		maxInputBytes: 1 << 20,
	}
}

// CreateContext builds the per-request context. It performs no I/O and cannot fail.
func (c *Config) CreateContext(r *http.Request) *Context {
	return &Context{
		Context: r.Context(),
		DB:      c.db,
		Headers: r.Header,
	}
}

// Procedure starts a builder for the given class with no middleware attached
func (c *Config) Procedure(class Class) Builder {
	return Builder{class: class}
}

// NewRouter creates an empty router bound to this configuration
func (c *Config) NewRouter() *Router {
	return &Router{cfg: c, procedures: make(map[string]*Procedure)}
}

// Router maps dotted procedure paths ("project.createProject") to procedures
type Router struct {
	cfg        *Config
	procedures map[string]*Procedure
}

// Handle registers a procedure. It panics on a duplicate path or an undeclared class,
// both programming errors caught at startup.
func (r *Router) Handle(path string, p *Procedure) {
	if p.class == "" {
		panic(fmt.Sprintf("rpc: procedure %q has no class", path))
	}
	if _, exists := r.procedures[path]; exists {
		panic(fmt.Sprintf("rpc: procedure %q registered twice", path))
	}
	r.procedures[path] = p
}

// Merge registers every procedure of sub under prefix
func (r *Router) Merge(prefix string, sub *Router) {
	for path, p := range sub.procedures {
		r.Handle(prefix+"."+path, p)
	}
}

// Paths lists the registered procedure paths in sorted order
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.procedures))
	for path := range r.procedures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Call invokes a procedure in-process, the same way the HTTP transport does
func (r *Router) Call(ctx *Context, path string, input json.RawMessage) (any, error) {
	p, ok := r.procedures[path]
	if !ok {
		return nil, NewError(CodeNotFound, fmt.Sprintf("No procedure found on path %q", path), ErrProcedureNotFound)
	}

	ctx.Path = path
	return p.Call(ctx, input)
}

// Register mounts the router on a gin group: queries on GET with the JSON input in the
// "input" query parameter, mutations on POST with the JSON input as the body.
func (r *Router) Register(group *gin.RouterGroup) {
	group.GET("/:path", r.serve(KindQuery))
	group.POST("/:path", r.serve(KindMutation))
}

func (r *Router) serve(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Param("path")

		if p, ok := r.procedures[path]; ok && p.kind != kind {
			r.writeError(c, path, NewError(CodeMethodNotSupported,
				fmt.Sprintf("Unsupported %s-method to %s procedure at path %q", c.Request.Method, p.kind, path), nil))
			return
		}

		input, err := r.readInput(c, kind)
		if err != nil {
			r.writeError(c, path, NewError(CodeParseError, "Failed to read input", err))
			return
		}

		result, err := r.Call(r.cfg.CreateContext(c.Request), path, input)
		if err != nil {
			r.writeError(c, path, AsError(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result": gin.H{"data": result},
		})
	}
}

func (r *Router) readInput(c *gin.Context, kind Kind) (json.RawMessage, error) {
	if kind == KindQuery {
		return json.RawMessage(c.Query("input")), nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, r.cfg.maxInputBytes))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (r *Router) writeError(c *gin.Context, path string, rpcErr *Error) {
	message := rpcErr.Error()
	if rpcErr.Code == CodeInternal {
		r.cfg.logger.Error("❌ [RPC] Procedure failed", "path", path, "error", rpcErr)
		if !r.cfg.exposeErrors && rpcErr.Message == "" {
			message = "Internal server error"
		}
	}

	status := rpcErr.Code.HTTPStatus()
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"code":    rpcErr.Code.JSONRPCCode(),
			"data": gin.H{
				"code":       rpcErr.Code,
				"httpStatus": status,
				"path":       path,
			},
		},
	})
}
