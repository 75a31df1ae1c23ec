package handlers

import (
	"fmt"
	"net/http"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	pkgviews "github.com/Seer7-SWE/PayTM-clone/pkg/views"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/services"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/views"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	logger    *zap.Logger
	ledger    services.LedgerService
	transfers services.TransferService
}

func NewAccountHandler(logger *zap.Logger, ledger services.LedgerService, transfers services.TransferService) *AccountHandler {
	return &AccountHandler{logger: logger, ledger: ledger, transfers: transfers}
}

// RegisterRoutes registers account routes on an authenticated group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	account := r.Group("/account")
	account.GET("/balance", h.GetBalance)
	account.POST("/send", h.Send)
	account.GET("/transactions", h.ListTransactions)
}

func (h *AccountHandler) GetBalance(c *gin.Context) {
	traceID, identity, ok := requestScope(c, h.logger)
	if !ok {
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), traceID, identity.UserID)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.BalanceResponse{Balance: balance})
}

func (h *AccountHandler) Send(c *gin.Context) {
	traceID, identity, ok := requestScope(c, h.logger)
	if !ok {
		return
	}

	var req views.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, traceID, invalidBody(err))
		return
	}
	toUsername, amount, err := req.Parse()
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}

	detail, err := h.transfers.Transfer(c.Request.Context(), traceID, identity.UserID, toUsername, amount)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.SendResponse{
		Success:  true,
		Message:  fmt.Sprintf("Sent %s%d to %s", pkg.CurrencySymbol, amount, detail.ReceiverUsername),
		Transfer: detail.ToTransactionView(),
	})
}

func (h *AccountHandler) ListTransactions(c *gin.Context) {
	traceID, identity, ok := requestScope(c, h.logger)
	if !ok {
		return
	}

	transfers, err := h.ledger.ListTransactions(c.Request.Context(), traceID, identity.UserID)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	out := make([]pkgviews.TransactionView, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, t.ToTransactionView())
	}
	c.JSON(http.StatusOK, out)
}
