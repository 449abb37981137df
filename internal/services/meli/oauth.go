package meli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
)

// OAuthService exchanges refresh tokens for new access tokens.
type OAuthService struct {
	config     *config.Config
	tokenURL   string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewOAuthService(cfg *config.Config, logger *logger.Logger) *OAuthService {
	return &OAuthService{
		config:   cfg,
		tokenURL: defaultBaseURL + "/oauth/token",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// RefreshToken performs the refresh_token grant. Refresh tokens are single
// use: the response carries a rotated refresh token the caller must persist
// before using the new access token.
func (s *OAuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if s.config.MLClientID == "" || s.config.MLClientSecret == "" {
		return nil, &AuthError{Reason: "client credentials not configured"}
	}
	if refreshToken == "" {
		return nil, &AuthError{Reason: "no refresh token available"}
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", s.config.MLClientID)
	data.Set("client_secret", s.config.MLClientSecret)
	data.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &AuthError{Reason: "failed to build refresh request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Reason: "token endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The body may describe the rejection but can also echo credentials
		// on some error shapes, so only the status goes into the error.
		io.Copy(io.Discard, resp.Body)
		return nil, &AuthError{Reason: "refresh rejected with status " + resp.Status}
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, &AuthError{Reason: "failed to parse token response", Err: err}
	}
	if tokenResp.AccessToken == "" {
		return nil, &AuthError{Reason: "token response missing access_token"}
	}

	return &tokenResp, nil
}
