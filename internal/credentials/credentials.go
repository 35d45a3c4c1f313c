// Package credentials stores the bearer token, refresh token and cached user
// profile under fixed keys in the durable client storage. The core never
// refreshes or validates tokens; it only attaches them to requests and wipes
// them when the server reports an expired session.
package credentials

import (
	"context"
	"fmt"
	"strings"

	"github.com/HustleV0/VirtinSaz-sub001/internal/config/store"
)

// Fixed storage keys, matching the keys the web dashboard writes.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store reads and writes credentials backed by the client storage.
type Store struct {
	storage *store.Store
}

// New creates a credential store on top of the given client storage.
func New(storage *store.Store) *Store {
	return &Store{storage: storage}
}

// Token returns the stored access token, or "" when no usable token exists.
// Web storage sometimes persists the literal strings "null" and "undefined";
// those are treated as absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	value, err := s.storage.LoadValue(ctx, KeyAccessToken)
	if store.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials: read access token: %w", err)
	}
	token := strings.TrimSpace(value)
	if token == "" || token == "null" || token == "undefined" {
		return "", nil
	}
	return token, nil
}

// User returns the cached user profile JSON, or "" when absent.
func (s *Store) User(ctx context.Context) (string, error) {
	value, err := s.storage.LoadValue(ctx, KeyUser)
	if store.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials: read user: %w", err)
	}
	return value, nil
}

// Save persists the access token and, when non-empty, the refresh token and
// cached user profile.
func (s *Store) Save(ctx context.Context, token, refreshToken, userJSON string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("credentials: access token is required")
	}

	values := map[string]string{KeyAccessToken: token}
	if refreshToken = strings.TrimSpace(refreshToken); refreshToken != "" {
		values[KeyRefreshToken] = refreshToken
	}
	if userJSON != "" {
		values[KeyUser] = userJSON
	}

	if err := s.storage.SaveValues(ctx, values); err != nil {
		return fmt.Errorf("credentials: save: %w", err)
	}
	return nil
}

// ClearAll wipes the access token, refresh token and cached user profile.
// Missing keys are not errors; the session-expiry path calls this
// unconditionally.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.storage.DeleteValues(ctx, KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		return fmt.Errorf("credentials: clear: %w", err)
	}
	return nil
}
