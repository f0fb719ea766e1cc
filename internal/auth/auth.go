// Package auth implements the admin password gate: a single shared
// password checked against a stored hash, with bearer tokens issued per
// login session.
package auth

import (
	"log/slog"
	"strconv"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/lucedivina/storefront/internal/types"
)

// HashPassword computes the legacy admin password digest: a 32-bit
// rolling hash over UTF-16 code units, rendered in base 36. Not a
// cryptographic hash; it only guards a single-operator admin panel and
// must stay byte-compatible with hashes already stored in deployments.
func HashPassword(password string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(password)) {
		h = h*31 + int32(u)
	}
	return strconv.FormatInt(int64(h), 36)
}

// DefaultPasswordHash is the digest of the initial admin password.
var DefaultPasswordHash = HashPassword("admin123")

// Manager validates admin credentials and tracks issued tokens.
type Manager struct {
	tokenTTL time.Duration
	logger   *slog.Logger

	mu           sync.Mutex
	passwordHash string
	tokens       map[string]time.Time // token -> expiry
}

// NewManager creates a Manager. An empty passwordHash selects the
// default admin password.
func NewManager(passwordHash string, tokenTTL time.Duration, logger *slog.Logger) *Manager {
	if passwordHash == "" {
		passwordHash = DefaultPasswordHash
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Manager{
		tokenTTL:     tokenTTL,
		logger:       logger.With("component", "auth"),
		passwordHash: passwordHash,
		tokens:       make(map[string]time.Time),
	}
}

// Login checks the password and issues a session token.
func (m *Manager) Login(password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if HashPassword(password) != m.passwordHash {
		m.logger.Warn("admin login rejected")
		return "", types.ErrBadCredentials
	}

	token := uuid.NewString()
	m.tokens[token] = time.Now().Add(m.tokenTTL)
	m.logger.Info("admin login accepted")
	return token, nil
}

// Verify reports whether the token belongs to a live session.
func (m *Manager) Verify(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(m.tokens, token)
		return false
	}
	return true
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

// SetPassword changes the admin password after verifying the current
// one. All existing sessions except the caller's stay valid, matching
// the single-operator model.
func (m *Manager) SetPassword(current, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if HashPassword(current) != m.passwordHash {
		return types.ErrBadCredentials
	}
	m.passwordHash = HashPassword(next)
	m.logger.Info("admin password changed")
	return nil
}
