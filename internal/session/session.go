// Package session keeps the signed-in user's token and profile in the local store.
//
// It is the one place that reads or writes session state: the API client pulls
// bearer tokens from it and the UI guard checks it before showing protected screens.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/tgienger/pmt/internal/db"
	"github.com/tgienger/pmt/internal/models"
)

// ErrNoSession is returned by Token when nobody is signed in.
var ErrNoSession = errors.New("session: no token stored")

// Settings is the subset of the local store the session needs.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSettings(values map[string]string) error
	DeleteSettings(keys ...string) error
}

// Store reads session state on demand; nothing is cached in memory.
type Store struct {
	settings Settings
}

func New(settings Settings) *Store {
	return &Store{settings: settings}
}

// Raw returns the stored token, empty when absent or unreadable.
func (s *Store) Raw() string {
	token, err := s.settings.GetSetting(db.KeyToken)
	if err != nil {
		slog.Warn("read session token", "error", err)
		return ""
	}
	return token
}

// Present reports whether a token is stored. It says nothing about validity.
func (s *Store) Present() bool {
	return s.Raw() != ""
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	raw := s.Raw()
	if raw == "" {
		return nil, ErrNoSession
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

// User returns the stored profile. ok is false when none is stored.
func (s *Store) User() (user models.User, ok bool) {
	raw, err := s.settings.GetSetting(db.KeyUser)
	if err != nil || raw == "" {
		return models.User{}, false
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Warn("decode session user", "error", err)
		return models.User{}, false
	}
	return user, true
}

// Save stores token and user together.
func (s *Store) Save(token string, user models.User) error {
	if token == "" {
		return fmt.Errorf("session: refusing to save an empty token")
	}
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := s.settings.SetSettings(map[string]string{
		db.KeyToken: token,
		db.KeyUser:  string(b),
	}); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Clear removes token and user together.
func (s *Store) Clear() error {
	if err := s.settings.DeleteSettings(db.KeyToken, db.KeyUser); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// ExpiresAt peeks at the exp claim when the token is a JWT.
// The signature is not checked; this is for display only.
func (s *Store) ExpiresAt() (time.Time, bool) {
	raw := s.Raw()
	if raw == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
