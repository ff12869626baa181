package session

import (
	"context"
	"errors"
	"time"

	"github.com/lalith-99/pgdesk/internal/auth"
	"go.uber.org/zap"
)

var ErrEmptyToken = errors.New("login returned an empty token")

// Session is the only authority on whether the user is logged in. It keeps
// no flag of its own: every question goes back to the Store, so a token
// removed or expired elsewhere is noticed on the next check.
type Session struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, logger *zap.Logger) *Session {
	return &Session{store: store, logger: logger, now: time.Now}
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.store.GetToken(ctx)
}

// Active reports whether a usable token is stored right now. Store failures
// count as logged out.
func (s *Session) Active(ctx context.Context) bool {
	token, err := s.store.GetToken(ctx)
	if err != nil {
		s.logger.Warn("session store unavailable", zap.Error(err))
		return false
	}
	if token == "" {
		return false
	}
	if auth.Expired(token, s.now()) {
		s.logger.Debug("stored token has expired")
		return false
	}
	return true
}

// Login records the token from a successful authentication response.
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.store.SetToken(ctx, token)
}

func (s *Session) Logout(ctx context.Context) error {
	return s.store.ClearToken(ctx)
}
