package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/config"
)

// Cookie names carrying the token pair.
const (
	accessCookieName  = "ACCESS"
	refreshCookieName = "REFRESH"
)

// CookiePolicy stamps the transport attributes onto auth cookies. Both
// cookies are httpOnly with path "/"; Secure and SameSite come from
// configuration so split-domain deployments can opt into None+Secure.
type CookiePolicy struct {
	secure   bool
	sameSite http.SameSite
}

// NewCookiePolicy builds a policy from configuration.
func NewCookiePolicy(cfg config.CookieConfig) CookiePolicy {
	sameSite := http.SameSiteLaxMode
	switch cfg.SameSite {
	case "None":
		sameSite = http.SameSiteNoneMode
	case "Strict":
		sameSite = http.SameSiteStrictMode
	}
	return CookiePolicy{secure: cfg.Secure, sameSite: sameSite}
}

// SetAuthCookies attaches a fresh token pair to the response.
func (p CookiePolicy) SetAuthCookies(c *gin.Context, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int) {
	p.set(c, accessCookieName, accessToken, accessMaxAge)
	p.set(c, refreshCookieName, refreshToken, refreshMaxAge)
}

// ClearAuthCookies expires both cookies immediately.
func (p CookiePolicy) ClearAuthCookies(c *gin.Context) {
	p.set(c, accessCookieName, "", -1)
	p.set(c, refreshCookieName, "", -1)
}

func (p CookiePolicy) set(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: p.sameSite,
	})
}
