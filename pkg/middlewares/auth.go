package middleware

import (
	"errors"
	"strings"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate validates the bearer token and stores the caller's auth.Identity in the context.
// Requests without a valid session are answered with 401 and never reach the handler.
func Authenticate(logger *zap.Logger, authority auth.SessionAuthority) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(pkg.TraceId)

		token, ok := BearerToken(c)
		if !ok {
			abort(c, logger, traceID, pkg.NewAppError(pkg.ErrNotAuthenticatedCode, "", pkg.ErrNotAuthenticated))
			return
		}

		identity, err := authority.Validate(c.Request.Context(), token)
		if err != nil {
			abort(c, logger, traceID, err)
			return
		}

		c.Set(pkg.Identity, identity)
		c.Set(pkg.UserId, identity.UserID)
		c.Set(pkg.Username, identity.Username)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(pkg.HeaderAuthorization)
	if len(header) < len(pkg.BearerPrefix) || !strings.EqualFold(header[:len(pkg.BearerPrefix)], pkg.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(pkg.BearerPrefix):])
	return token, !utils.IsEmpty(token)
}

// GetIdentity returns the identity placed by Authenticate.
func GetIdentity(c *gin.Context) (auth.Identity, error) {
	value, ok := c.Get(pkg.Identity)
	if !ok {
		return auth.Identity{}, pkg.NewAppError(pkg.ErrNotAuthenticatedCode, "", pkg.ErrNotAuthenticated)
	}
	identity, ok := value.(auth.Identity)
	if !ok {
		return auth.Identity{}, errors.New("identity has unexpected type")
	}
	return identity, nil
}

func abort(c *gin.Context, logger *zap.Logger, traceID string, err error) {
	resp := pkg.ToErrorResponse(logger, traceID, err)
	c.AbortWithStatusJSON(resp.Status, resp)
}
