package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/ncb6206/SIKBOO/internal/dto"
)

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *Suite) post(path string, cookies ...*http.Cookie) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, nil)
	s.Require().NoError(err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRefresh_Success() {
	memberID := s.createMember("refresher")
	_, refreshToken := s.openSession(memberID)

	resp := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)

	access := cookieByName(resp, "ACCESS")
	refresh := cookieByName(resp, "REFRESH")
	s.Require().NotNil(access)
	s.Require().NotNil(refresh)
	s.NotEmpty(access.Value)
	s.NotEmpty(refresh.Value)
	s.NotEqual(refreshToken, refresh.Value, "refresh token must rotate")
	s.True(access.HttpOnly)
	s.True(refresh.HttpOnly)
}

func (s *Suite) TestRefresh_RateLimited() {
	memberID := s.createMember("limited")
	_, refreshToken := s.openSession(memberID)

	resp := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("X-RateLimit-Limit"), "refresh must pass through the rate limiter")
	s.NotEmpty(resp.Header.Get("X-RateLimit-Remaining"))
}

func (s *Suite) TestRefresh_ConsumedTokenRejected() {
	memberID := s.createMember("rotator")
	_, refreshToken := s.openSession(memberID)

	resp1 := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	resp1.Body.Close()
	s.Equal(http.StatusNoContent, resp1.StatusCode)

	// The original token still verifies cryptographically but its session
	// row was replaced by the rotation.
	resp2 := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	defer resp2.Body.Close()
	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *Suite) TestRefresh_AccessTokenRejected() {
	memberID := s.createMember("confused")
	accessToken, _ := s.openSession(memberID)

	resp := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: accessToken})
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_MissingCookie() {
	resp := s.post("/auth/refresh")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesAndClearsCookies() {
	memberID := s.createMember("leaver")
	_, refreshToken := s.openSession(memberID)

	resp := s.post("/auth/logout", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
	for _, name := range []string{"ACCESS", "REFRESH"} {
		cookie := cookieByName(resp, name)
		s.Require().NotNil(cookie)
		s.Empty(cookie.Value)
		s.Negative(cookie.MaxAge)
	}

	// The revoked token cannot refresh anymore.
	refreshResp := s.post("/auth/refresh", &http.Cookie{Name: "REFRESH", Value: refreshToken})
	defer refreshResp.Body.Close()
	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)
}

func (s *Suite) TestLogout_WithoutCookieStillSucceeds() {
	resp := s.post("/auth/logout")
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *Suite) TestMe_WithBearerToken() {
	memberID := s.createMember("viewer")
	accessToken, _ := s.openSession(memberID)

	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var me dto.MeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&me))
	s.Equal(memberID, me.ID)
	s.Equal("viewer", me.Name)
	s.Equal("USER", me.Role)
}

func (s *Suite) TestMe_WithAccessCookie() {
	memberID := s.createMember("cookie-viewer")
	accessToken, _ := s.openSession(memberID)

	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "ACCESS", Value: accessToken})
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestMe_Anonymous() {
	resp, err := http.Get(s.BaseURL + "/api/auth/me")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestMe_InvalidTokenIsAnonymous() {
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
