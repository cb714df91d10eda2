// Package oauth implements the social login flows. Each provider exposes a
// standard authorization-code exchange; the differences live in the endpoint
// URLs and the shape of the userinfo document.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/ncb6206/SIKBOO/internal/config"
	"github.com/ncb6206/SIKBOO/internal/domain"
)

// Supported provider names, used as path parameters and stored on members.
const (
	ProviderGoogle = "google"
	ProviderKakao  = "kakao"
	ProviderNaver  = "naver"
)

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

// Providers resolves provider names to configured OAuth2 clients.
type Providers struct {
	configs map[string]*oauth2.Config
}

// NewProviders builds the provider registry from configuration. Providers
// without a client id are left unregistered and reject login attempts.
func NewProviders(cfg config.OAuthConfig) *Providers {
	p := &Providers{configs: make(map[string]*oauth2.Config)}

	if cfg.Google.ClientID != "" {
		p.configs[ProviderGoogle] = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint:     googleoauth.Endpoint,
		}
	}
	if cfg.Kakao.ClientID != "" {
		p.configs[ProviderKakao] = &oauth2.Config{
			ClientID:     cfg.Kakao.ClientID,
			ClientSecret: cfg.Kakao.ClientSecret,
			RedirectURL:  cfg.Kakao.RedirectURL,
			Scopes:       []string{"profile_nickname"},
			Endpoint:     kakaoEndpoint,
		}
	}
	if cfg.Naver.ClientID != "" {
		p.configs[ProviderNaver] = &oauth2.Config{
			ClientID:     cfg.Naver.ClientID,
			ClientSecret: cfg.Naver.ClientSecret,
			RedirectURL:  cfg.Naver.RedirectURL,
			Endpoint:     naverEndpoint,
		}
	}

	return p
}

// Config returns the OAuth2 config for a provider name.
func (p *Providers) Config(provider string) (*oauth2.Config, error) {
	cfg, ok := p.configs[provider]
	if !ok {
		return nil, fmt.Errorf("unknown or unconfigured provider %q", provider)
	}
	return cfg, nil
}

// Exchange trades the authorization code for a token and resolves the
// provider's userinfo document into an external identity.
func (p *Providers) Exchange(ctx context.Context, provider, code string) (domain.ExternalIdentity, error) {
	cfg, err := p.Config(provider)
	if err != nil {
		return domain.ExternalIdentity{}, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	return p.fetchIdentity(ctx, cfg, provider, token)
}

func (p *Providers) fetchIdentity(ctx context.Context, cfg *oauth2.Config, provider string, token *oauth2.Token) (domain.ExternalIdentity, error) {
	var url string
	switch provider {
	case ProviderGoogle:
		url = "https://www.googleapis.com/oauth2/v2/userinfo"
	case ProviderKakao:
		url = "https://kapi.kakao.com/v2/user/me"
	case ProviderNaver:
		url = "https://openapi.naver.com/v1/nid/me"
	default:
		return domain.ExternalIdentity{}, fmt.Errorf("unknown provider %q", provider)
	}

	resp, err := cfg.Client(ctx, token).Get(url)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ExternalIdentity{}, fmt.Errorf("userinfo error (%d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("failed to read userinfo: %w", err)
	}

	return parseIdentity(provider, body)
}

// parseIdentity extracts the stable account id and display name from a
// provider's userinfo document.
func parseIdentity(provider string, body []byte) (domain.ExternalIdentity, error) {
	switch provider {
	case ProviderGoogle:
		var doc struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return domain.ExternalIdentity{}, fmt.Errorf("failed to decode google userinfo: %w", err)
		}
		if doc.ID == "" {
			return domain.ExternalIdentity{}, fmt.Errorf("google userinfo missing account id")
		}
		return domain.ExternalIdentity{Provider: provider, ProviderID: doc.ID, Name: doc.Name}, nil

	case ProviderKakao:
		var doc struct {
			ID           int64 `json:"id"`
			KakaoAccount struct {
				Profile struct {
					Nickname string `json:"nickname"`
				} `json:"profile"`
			} `json:"kakao_account"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return domain.ExternalIdentity{}, fmt.Errorf("failed to decode kakao userinfo: %w", err)
		}
		if doc.ID == 0 {
			return domain.ExternalIdentity{}, fmt.Errorf("kakao userinfo missing account id")
		}
		return domain.ExternalIdentity{
			Provider:   provider,
			ProviderID: fmt.Sprintf("%d", doc.ID),
			Name:       doc.KakaoAccount.Profile.Nickname,
		}, nil

	case ProviderNaver:
		var doc struct {
			Response struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"response"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return domain.ExternalIdentity{}, fmt.Errorf("failed to decode naver userinfo: %w", err)
		}
		if doc.Response.ID == "" {
			return domain.ExternalIdentity{}, fmt.Errorf("naver userinfo missing account id")
		}
		return domain.ExternalIdentity{
			Provider:   provider,
			ProviderID: doc.Response.ID,
			Name:       doc.Response.Name,
		}, nil
	}

	return domain.ExternalIdentity{}, fmt.Errorf("unknown provider %q", provider)
}
