package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store owns the bearer token on disk. It is the single mutation point
// for credentials: Login writes through Set, the guard and logout go
// through Clear, and every outgoing request reads through Token.
type Store struct {
	mu     sync.Mutex
	path   string
	token  string
	loaded bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored bearer token. A token whose JWT exp claim
// has passed reads as absent, so a dead session forces re-login
// without a wasted round trip. Opaque (non-JWT) tokens are returned
// as-is.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.token == "" || expired(s.token) {
		return "", false
	}
	return s.token, true
}

func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	b, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	s.token = strings.TrimSpace(string(b))
}

func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}
