package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/middleware"
)

// DashboardPath is where the browser lands after a successful sync
const DashboardPath = "/dashboard"

// SyncHandler mirrors the signed-in user into the local directory after sign-in
type SyncHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(userService service.UserService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		userService: userService,
		logger:      logger,
	}
}

// SyncUser handles GET /sync-user, the identity provider's post sign-in redirect target
func (h *SyncHandler) SyncUser(c *gin.Context) {
	value, exists := c.Get(middleware.IdentityKey)
	if !exists {
		h.logger.Error("❌ [SyncHandler] Identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	caller, ok := value.(*identity.Identity)
	if !ok {
		h.logger.Error("❌ [SyncHandler] Invalid identity type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if _, err := h.userService.SyncIdentity(c.Request.Context(), caller); err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityIncomplete), errors.Is(err, identity.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("❌ [SyncHandler] Failed to sync user", "user_id", caller.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Redirect(http.StatusFound, DashboardPath)
}
