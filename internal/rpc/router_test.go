package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Data    struct {
			Code       Code   `json:"code"`
			HTTPStatus int    `json:"httpStatus"`
			Path       string `json:"path"`
		} `json:"data"`
	} `json:"error"`
}

func newTestServer(t *testing.T, exposeErrors bool) *gin.Engine {
	t.Helper()

	cfg := NewConfig(nil, discardLogger(), exposeErrors)
	public := cfg.Procedure(ClassPublic)

	sub := cfg.NewRouter()
	sub.Handle("greet", public.Query(Typed(func(ctx *Context, in greetInput) (string, error) {
		return "hello " + in.Name, nil
	})))
	sub.Handle("echo", public.Mutation(Typed(func(ctx *Context, in greetInput) (map[string]string, error) {
		return map[string]string{"name": in.Name, "path": ctx.Path}, nil
	})))
	sub.Handle("explode", public.Query(func(ctx *Context, _ json.RawMessage) (any, error) {
		return nil, errors.New("pq: relation \"projects\" does not exist")
	}))

	app := cfg.NewRouter()
	app.Merge("demo", sub)

	r := gin.New()
	app.Register(r.Group("/api/trpc"))
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRouter_QueryOverGET(t *testing.T) {
	r := newTestServer(t, false)

	status, env := do(t, r, http.MethodGet,
		"/api/trpc/demo.greet?input="+url.QueryEscape(`{"name":"ada"}`), "")

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Result)
	assert.JSONEq(t, `"hello ada"`, string(env.Result.Data))
}

func TestRouter_MutationOverPOST(t *testing.T) {
	r := newTestServer(t, false)

	status, env := do(t, r, http.MethodPost, "/api/trpc/demo.echo", `{"name":"grace"}`)

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Result)
	assert.JSONEq(t, `{"name":"grace","path":"demo.echo"}`, string(env.Result.Data))
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   Code
		wantPath   string
	}{
		{
			name:       "unknown procedure",
			method:     http.MethodGet,
			target:     "/api/trpc/demo.missing",
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
			wantPath:   "demo.missing",
		},
		{
			name:       "mutation called with GET",
			method:     http.MethodGet,
			target:     "/api/trpc/demo.echo",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   CodeMethodNotSupported,
			wantPath:   "demo.echo",
		},
		{
			name:       "query called with POST",
			method:     http.MethodPost,
			target:     "/api/trpc/demo.greet",
			body:       `{"name":"ada"}`,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   CodeMethodNotSupported,
			wantPath:   "demo.greet",
		},
		{
			name:       "invalid input",
			method:     http.MethodPost,
			target:     "/api/trpc/demo.echo",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
			wantPath:   "demo.echo",
		},
		{
			name:       "malformed input",
			method:     http.MethodPost,
			target:     "/api/trpc/demo.echo",
			body:       `{"name"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeParseError,
			wantPath:   "demo.echo",
		},
	}

	r := newTestServer(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, r, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Data.Code)
			assert.Equal(t, tt.wantStatus, env.Error.Data.HTTPStatus)
			assert.Equal(t, tt.wantCode.JSONRPCCode(), env.Error.Code)
			assert.Equal(t, tt.wantPath, env.Error.Data.Path)
		})
	}
}

func TestRouter_InternalErrorsAreMasked(t *testing.T) {
	status, env := do(t, newTestServer(t, false), http.MethodGet, "/api/trpc/demo.explode", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Internal server error", env.Error.Message)
	assert.Equal(t, CodeInternal, env.Error.Data.Code)

	_, env = do(t, newTestServer(t, true), http.MethodGet, "/api/trpc/demo.explode", "")
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "does not exist")
}

func TestRouter_HandleRejectsDuplicatesAndMissingClass(t *testing.T) {
	cfg := NewConfig(nil, discardLogger(), false)
	handler := func(ctx *Context, _ json.RawMessage) (any, error) { return nil, nil }

	router := cfg.NewRouter()
	router.Handle("a", cfg.Procedure(ClassPublic).Query(handler))

	assert.Panics(t, func() {
		router.Handle("a", cfg.Procedure(ClassPublic).Query(handler))
	})
	assert.Panics(t, func() {
		router.Handle("b", Builder{}.Query(handler))
	})
}

func TestRouter_PathsAndCall(t *testing.T) {
	cfg := NewConfig(nil, discardLogger(), false)
	public := cfg.Procedure(ClassPublic)

	sub := cfg.NewRouter()
	sub.Handle("b", public.Query(func(ctx *Context, _ json.RawMessage) (any, error) { return ctx.Path, nil }))
	sub.Handle("a", public.Query(func(ctx *Context, _ json.RawMessage) (any, error) { return nil, nil }))

	app := cfg.NewRouter()
	app.Merge("x", sub)

	assert.Equal(t, []string{"x.a", "x.b"}, app.Paths())

	result, err := app.Call(newContext(), "x.b", nil)
	require.NoError(t, err)
	assert.Equal(t, "x.b", result)

	_, err = app.Call(newContext(), "x.c", nil)
	assert.ErrorIs(t, err, ErrProcedureNotFound)
}

func TestConfig_CreateContext(t *testing.T) {
	cfg := NewConfig(nil, discardLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/trpc/x", nil)
	req.Header.Set("Authorization", "Bearer abc")

	ctx := cfg.CreateContext(req)
	assert.Equal(t, req.Context(), ctx.Context)
	assert.Equal(t, "Bearer abc", ctx.Headers.Get("Authorization"))
	assert.Nil(t, ctx.Identity)
	assert.Nil(t, ctx.DB)
}
