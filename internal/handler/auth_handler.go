package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/service"
	"github.com/ncb6206/SIKBOO/internal/utils"
)

// AuthHandler handles session lifecycle requests
type AuthHandler struct {
	authService service.AuthService
	jwtManager  *utils.JWTManager
	cookies     CookiePolicy
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, jwtManager *utils.JWTManager, cookies CookiePolicy) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
		cookies:     cookies,
	}
}

// Refresh rotates the REFRESH cookie into a new token pair. Success is 204
// with both cookies replaced; any failure is 401 with no body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		c.Status(http.StatusUnauthorized)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if err == service.ErrUnauthorized {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Failed to refresh session",
		})
		return
	}

	h.cookies.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken,
		h.jwtManager.AccessTokenMaxAge(), h.jwtManager.RefreshTokenMaxAge())
	c.Status(http.StatusNoContent)
}

// Logout revokes the refresh session and clears both cookies. Always 204,
// even without a valid cookie; logout must never fail from the client's view.
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshCookieName); err == nil && refreshToken != "" {
		h.authService.Logout(c.Request.Context(), refreshToken)
	}

	h.cookies.ClearAuthCookies(c)
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated member's identity.
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.authService.GetMe(c.Request.Context(), MemberID(c))
	if err != nil {
		if err == service.ErrUnauthorized {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Unknown member",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Failed to load member",
		})
		return
	}

	c.JSON(http.StatusOK, me)
}
