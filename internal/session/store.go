package session

import (
	"context"
	"sync"
)

// TokenKey is the well-known key the bearer token is persisted under.
const TokenKey = "authToken"

// Store holds the single bearer token of the local session.
//
// GetToken returns "" with a nil error when no token is stored.
type Store interface {
	SetToken(ctx context.Context, value string) error
	GetToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// MemoryStore keeps the token for the life of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SetToken(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = value
	return nil
}

func (s *MemoryStore) GetToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) ClearToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
