package api

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

// RPCPrefix is where the procedure router is mounted
const RPCPrefix = "/api/trpc"

func SetupRouter(
	cfg *config.Config,
	appRouter *rpc.Router,
	syncHandler *handler.SyncHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.IsDevelopment() {
		r.Use(gin.Logger())
	}
	r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	r.GET("/api/v1/health", handler.Liveness)

	// Post sign-in page entry
	r.GET("/sync-user", authMiddleware.RequireSession(), syncHandler.SyncUser)

	// Procedures; each declares its own class and middleware
	appRouter.Register(r.Group(RPCPrefix))

	return r
}

// Procedures holds the two procedure classes every operation is built from
type Procedures struct {
	Public    rpc.Builder
	Protected rpc.Builder
}

// NewProcedures attaches the shared middleware. Timing is outermost, so the elapsed time of
// protected procedures includes authentication.
func NewProcedures(rpcConfig *rpc.Config, cfg *config.Config, authMiddleware *middleware.AuthMiddleware, logger *slog.Logger) Procedures {
	public := rpcConfig.Procedure(rpc.ClassPublic).Use(middleware.Timing(logger, middleware.TimingOptions{
		DevDelay: cfg.IsDevelopment(),
		MinDelay: cfg.DevDelayMin,
		MaxDelay: cfg.DevDelayMax,
	}))

	return Procedures{
		Public:    public,
		Protected: public.As(rpc.ClassProtected).Use(authMiddleware.RequireAuth()),
	}
}

// BuildAppRouter assembles every procedure under its namespace
func BuildAppRouter(
	rpcConfig *rpc.Config,
	procedures Procedures,
	projectHandler *handler.ProjectHandler,
	createLimit rpc.Middleware,
) *rpc.Router {
	app := rpcConfig.NewRouter()
	app.Merge("health", handler.HealthRouter(rpcConfig, procedures.Public))
	app.Merge("project", projectHandler.Router(rpcConfig, procedures.Protected, createLimit))
	return app
}
