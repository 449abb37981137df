package meli

import (
	"context"
	"sync"
	"time"

	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
)

// tokenSkew is subtracted from the stored expiry so the token is refreshed
// before it actually lapses mid-request.
const tokenSkew = 60 * time.Second

// TokenStore persists the singleton token record.
type TokenStore interface {
	Load(ctx context.Context) (*models.Token, error)
	Save(ctx context.Context, token *models.Token) error
}

// TokenRefresher performs the OAuth refresh_token grant.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
}

// TokenGuard hands out a valid access token, refreshing and persisting it
// when the stored one is expired or inside the skew window. Refreshes are
// serialized behind a mutex so concurrent callers share one refresh instead
// of racing each other into rotating the refresh token twice.
type TokenGuard struct {
	store   TokenStore
	oauth   TokenRefresher
	logger  *logger.Logger
	mu      sync.Mutex
	nowFunc func() time.Time
}

func NewTokenGuard(store TokenStore, oauth TokenRefresher, logger *logger.Logger) *TokenGuard {
	return &TokenGuard{
		store:   store,
		oauth:   oauth,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (g *TokenGuard) EnsureValidToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	token, err := g.store.Load(ctx)
	if err != nil {
		return "", &AuthError{Reason: "failed to load stored token", Err: err}
	}

	now := g.nowFunc()
	if !token.Expired(now, tokenSkew) {
		return token.AccessToken, nil
	}

	g.logger.Info("access token expired or near expiry, refreshing")

	resp, err := g.oauth.RefreshToken(ctx, token.RefreshToken)
	if err != nil {
		return "", err
	}

	refreshed := &models.Token{
		ID:           models.TokenSlotID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(resp.ExpiresIn) * time.Second).UnixMilli(),
	}

	if err := g.store.Save(ctx, refreshed); err != nil {
		return "", &AuthError{Reason: "failed to persist refreshed token", Err: err}
	}

	return refreshed.AccessToken, nil
}
