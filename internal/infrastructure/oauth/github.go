// Package oauth implements the GitHub code-for-identity exchange.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

var ErrExchangeFailed = errors.New("oauth exchange failed")

const (
	defaultTokenURL = "https://github.com/login/oauth/access_token"
	defaultUserURL  = "https://api.github.com/user"
)

// GithubProvider exchanges an authorization code for a GitHub identity.
type GithubProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	userURL      string
	httpClient   *http.Client
	log          *zap.Logger
}

func NewGithubProvider(cfg *config.Config, log *zap.Logger) *GithubProvider {
	return &GithubProvider{
		clientID:     cfg.GithubClientID,
		clientSecret: cfg.GithubClientSecret,
		tokenURL:     defaultTokenURL,
		userURL:      defaultUserURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
	}
}

// NewGithubProviderWithEndpoints overrides the GitHub endpoints, used by tests.
func NewGithubProviderWithEndpoints(clientID, clientSecret, tokenURL, userURL string, log *zap.Logger) *GithubProvider {
	return &GithubProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		userURL:      userURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
	}
}

// Exchange swaps an authorization code for an access token, then resolves
// the token to the GitHub account it belongs to.
func (p *GithubProvider) Exchange(ctx context.Context, code string) (*domain.OAuthIdentity, error) {
	accessToken, err := p.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return p.fetchIdentity(ctx, accessToken)
}

func (p *GithubProvider) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Error("github token request failed", zap.Error(err))
		return "", ErrExchangeFailed
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Err         string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", ErrExchangeFailed
	}
	if body.AccessToken == "" {
		p.log.Warn("github rejected authorization code", zap.String("error", body.Err))
		return "", ErrExchangeFailed
	}

	return body.AccessToken, nil
}

func (p *GithubProvider) fetchIdentity(ctx context.Context, accessToken string) (*domain.OAuthIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Error("github user request failed", zap.Error(err))
		return nil, ErrExchangeFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed
	}

	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrExchangeFailed
	}

	return &domain.OAuthIdentity{
		ProviderID: body.ID,
		Login:      body.Login,
		Email:      body.Email,
		AvatarURL:  body.AvatarURL,
	}, nil
}
