package meli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
)

func newTestOAuthService(t *testing.T, handler http.Handler) *OAuthService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewOAuthService(&config.Config{
		MLClientID:     "client-id",
		MLClientSecret: "client-secret",
	}, logger.New("error"))
	svc.tokenURL = srv.URL
	svc.httpClient = srv.Client()
	return svc
}

func TestRefreshToken_Success(t *testing.T) {
	svc := newTestOAuthService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    21600,
			TokenType:    "Bearer",
		})
	}))

	resp, err := svc.RefreshToken(context.Background(), "old-refresh")
	require.NoError(t, err)

	assert.Equal(t, "new-access", resp.AccessToken)
	assert.Equal(t, "new-refresh", resp.RefreshToken)
	assert.Equal(t, int64(21600), resp.ExpiresIn)
}

func TestRefreshToken_Rejected(t *testing.T) {
	svc := newTestOAuthService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))

	_, err := svc.RefreshToken(context.Background(), "revoked")
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestRefreshToken_MissingCredentials(t *testing.T) {
	svc := NewOAuthService(&config.Config{}, logger.New("error"))

	_, err := svc.RefreshToken(context.Background(), "refresh")
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestRefreshToken_MissingRefreshToken(t *testing.T) {
	svc := NewOAuthService(&config.Config{
		MLClientID:     "client-id",
		MLClientSecret: "client-secret",
	}, logger.New("error"))

	_, err := svc.RefreshToken(context.Background(), "")
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}
