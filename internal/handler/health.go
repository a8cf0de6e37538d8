package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

type pingResponse struct {
	Status string `json:"status"`
}

// HealthRouter builds the public "health" procedures
func HealthRouter(cfg *rpc.Config, public rpc.Builder) *rpc.Router {
	router := cfg.NewRouter()
	router.Handle("ping", public.Query(rpc.Typed(Ping)))
	return router
}

// Ping handles health.ping by checking the storage handle carried by the request context
func Ping(ctx *rpc.Context, _ rpc.NoInput) (*pingResponse, error) {
	if err := database.Ping(ctx, ctx.DB); err != nil {
		return nil, rpc.NewError(rpc.CodeInternal, "Database unreachable", err)
	}
	return &pingResponse{Status: "ok"}, nil
}

// Liveness handles GET /api/v1/health
func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
