package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/utils"
)

// Context keys set by AuthMiddleware.
const (
	ctxMemberID = "member_id"
	ctxRoles    = "roles"
	ctxClaims   = "claims"
)

// AuthMiddleware resolves the request credential and, when it verifies as an
// access token, attaches the member identity to the context. A missing or
// invalid credential leaves the request anonymous without aborting; route
// guards decide whether anonymous is acceptable.
//
// The Authorization header takes precedence over the ACCESS cookie.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := resolveToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil || claims.Type != domain.TokenTypeAccess {
			c.Next()
			return
		}

		c.Set(ctxMemberID, claims.MemberID)
		c.Set(ctxRoles, claims.Roles)
		c.Set(ctxClaims, claims)

		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxMemberID); !ok {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// MemberID returns the authenticated member id. Only valid behind RequireAuth.
func MemberID(c *gin.Context) int64 {
	return c.GetInt64(ctxMemberID)
}

func resolveToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(accessCookieName); err == nil {
		return cookie
	}
	return ""
}
