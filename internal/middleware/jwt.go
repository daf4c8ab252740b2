package middleware

import (
	"net/http"
	"strings"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/internal/service"
	"github.com/edubooster/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	tokens *service.TokenService
}

func NewJWTMiddleware(tokens *service.TokenService) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// RequireAuth validates the access token and sets the caller's identity in
// the gin context.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, http.StatusUnauthorized))
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, http.StatusUnauthorized))
			c.Abort()
			return
		}

		claims, err := m.tokens.VerifyAccessToken(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, http.StatusUnauthorized))
			c.Abort()
			return
		}

		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole restricts a route to callers whose token carries the given
// role. Must run after RequireAuth.
func (m *JWTMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := c.GetString(constants.GinKeyUserRole)
		if callerRole != role {
			logger.GetLogger().Warn("Role check failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("required_role", role),
				zap.String("caller_role", callerRole))
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, http.StatusForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}
