package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore persists the single opaque access credential across runs.
// The credential is written once at startup (or by an explicit set) and
// cleared only by explicit action.
type TokenStore struct {
	dir string
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// DefaultDir returns the per-user config directory for the app.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "telestore")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "telestore")
}

// NewTokenStore creates a store rooted at dir (DefaultDir when empty).
func NewTokenStore(dir string) *TokenStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &TokenStore{dir: dir}
}

func (s *TokenStore) path() string { return filepath.Join(s.dir, "token.json") }

// Save writes the token. When the token is a JWT its exp claim is recorded so
// Load can refuse stale credentials; opaque tokens carry no expiry.
func (s *TokenStore) Save(tok string) error {
	if tok == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	tf := tokenFile{AccessToken: tok, ExpiresAt: tokenExpiry(tok)}
	f, err := os.Create(s.path())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tf)
}

// Load returns the persisted token or an error when none is usable.
func (s *TokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" {
		return "", errors.New("no token (provision one with set-token)")
	}
	if !tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt) {
		return "", errors.New("token expired (provision a fresh one)")
	}
	return tf.AccessToken, nil
}

// Clear removes the persisted token.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// tokenExpiry extracts the exp claim from a JWT without validating the
// signature. Non-JWT tokens yield a zero time.
func tokenExpiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Time{}
}
