package handlers

import (
	"net/http"

	middleware "github.com/Seer7-SWE/PayTM-clone/pkg/middlewares"
	"github.com/Seer7-SWE/PayTM-clone/pkg/utils"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/services"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/views"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	logger  *zap.Logger
	service services.CredentialService
}

func NewAuthHandler(logger *zap.Logger, svc services.CredentialService) *AuthHandler {
	return &AuthHandler{logger: logger, service: svc}
}

// RegisterRoutes registers signup and signin on public, signout on the authenticated group.
func (h *AuthHandler) RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.POST("/signup", h.Signup)
	public.POST("/signin", h.Signin)
	protected.POST("/signout", h.Signout)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		writeError(c, h.logger, "", err)
		return
	}

	var req views.SignupRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, traceID, invalidBody(err))
		return
	}

	userID, err := h.service.Signup(c.Request.Context(), traceID, req)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusCreated, views.SignupResponse{Message: "User created successfully", UserID: userID})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		writeError(c, h.logger, "", err)
		return
	}

	var req views.LoginRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, traceID, invalidBody(err))
		return
	}

	session, user, err := h.service.Login(c.Request.Context(), traceID, req)
	if err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    user.ID,
		Username:  user.Username,
	})
}

func (h *AuthHandler) Signout(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		writeError(c, h.logger, "", err)
		return
	}

	token, _ := middleware.BearerToken(c)
	if err = h.service.Logout(c.Request.Context(), traceID, token); err != nil {
		writeError(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.MessageResponse{Message: "Signed out"})
}
