package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ncb6206/SIKBOO/internal/oauth"
	"github.com/ncb6206/SIKBOO/internal/service"
	"github.com/ncb6206/SIKBOO/internal/utils"
)

const stateCookieName = "OAUTH_STATE"

// OAuthHandler drives the social login flow: redirect out with a state
// cookie, then exchange the callback code for a member session.
type OAuthHandler struct {
	providers   *oauth.Providers
	authService service.AuthService
	jwtManager  *utils.JWTManager
	cookies     CookiePolicy
	frontendURL string
	logger      *zap.Logger
}

// NewOAuthHandler creates a new oauth handler
func NewOAuthHandler(
	providers *oauth.Providers,
	authService service.AuthService,
	jwtManager *utils.JWTManager,
	cookies CookiePolicy,
	frontendURL string,
	logger *zap.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		authService: authService,
		jwtManager:  jwtManager,
		cookies:     cookies,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Login redirects the browser to the provider's consent page.
func (h *OAuthHandler) Login(c *gin.Context) {
	cfg, err := h.providers.Config(c.Param("provider"))
	if err != nil {
		h.redirectWithError(c, "unknown_provider")
		return
	}

	state := uuid.New().String()
	h.cookies.set(c, stateCookieName, state, 600)

	c.Redirect(http.StatusFound, cfg.AuthCodeURL(state))
}

// Callback completes the flow: state check, code exchange, member upsert,
// session cookies, redirect back to the frontend.
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Info("oauth consent denied",
			zap.String("provider", provider),
			zap.String("error", errParam),
		)
		h.redirectWithError(c, "consent_denied")
		return
	}

	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != c.Query("state") {
		h.redirectWithError(c, "state_mismatch")
		return
	}
	h.cookies.set(c, stateCookieName, "", -1)

	code := c.Query("code")
	if code == "" {
		h.redirectWithError(c, "missing_code")
		return
	}

	identity, err := h.providers.Exchange(c.Request.Context(), provider, code)
	if err != nil {
		h.logger.Warn("oauth exchange failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.redirectWithError(c, "oauth_failed")
		return
	}

	member, pair, err := h.authService.CompleteLogin(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("oauth login failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.redirectWithError(c, "login_failed")
		return
	}

	h.cookies.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken,
		h.jwtManager.AccessTokenMaxAge(), h.jwtManager.RefreshTokenMaxAge())

	target := h.frontendURL + "/oauth2/success"
	if !member.Onboarded {
		target += "?onboarded=false"
	}
	c.Redirect(http.StatusFound, target)
}

func (h *OAuthHandler) redirectWithError(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(reason))
}
