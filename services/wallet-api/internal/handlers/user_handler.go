package handlers

import (
	"net/http"

	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	middleware "github.com/Seer7-SWE/PayTM-clone/pkg/middlewares"
	"github.com/Seer7-SWE/PayTM-clone/pkg/utils"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	logger      *zap.Logger
	directory   services.DirectoryService
	ledger      services.LedgerService
	recentLimit int
}

func NewUserHandler(logger *zap.Logger, directory services.DirectoryService, ledger services.LedgerService, recentLimit int) *UserHandler {
	return &UserHandler{logger: logger, directory: directory, ledger: ledger, recentLimit: recentLimit}
}

// RegisterRoutes registers user lookup routes on an authenticated group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.GET("/search", h.Search)
	users.GET("/recent", h.Recent)
}

func (h *UserHandler) Search(c *gin.Context) {
	traceID, identity, ok := requestScope(c, h.logger)
	if !ok {
		return
	}

	users, err := h.directory.SearchUsers(c.Request.Context(), traceID, c.Query("query"), identity.UserID)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Recent(c *gin.Context) {
	traceID, identity, ok := requestScope(c, h.logger)
	if !ok {
		return
	}

	users, err := h.ledger.RecentCounterparties(c.Request.Context(), traceID, identity.UserID, h.recentLimit)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// requestScope pulls the trace id and caller identity, writing the error response itself when either is missing.
func requestScope(c *gin.Context, logger *zap.Logger) (string, auth.Identity, bool) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		writeError(c, logger, "", err)
		return "", auth.Identity{}, false
	}
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		writeError(c, logger, traceID, err)
		return "", auth.Identity{}, false
	}
	return traceID, identity, true
}
