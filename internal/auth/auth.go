// Package auth handles back-office login: bcrypt password hashes and
// HMAC-signed session cookies.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie that carries a signed session.
const SessionCookieName = "mouldquote_session"

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DefaultSessionTTL bounds how long a login lasts.
const DefaultSessionTTL = 12 * time.Hour

// ErrEmptySecret is returned by NewSessions when no signing secret is given.
var ErrEmptySecret = errors.New("session secret must not be empty")

// Sessions signs and verifies session cookie values.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions returns a signer for cookies that expire after ttl. A zero ttl
// means DefaultSessionTTL. Secure cookies are only sent over HTTPS.
func NewSessions(secret string, ttl time.Duration, secure bool) (Sessions, error) {
	if secret == "" {
		return Sessions{}, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}, nil
}

// RandomSecret returns a fresh 256-bit secret, hex encoded.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s Sessions) mac(payload string) []byte {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(payload))
	return m.Sum(nil)
}

// Sign returns "<base64 email>.<unix expiry>.<hex hmac>".
func (s Sessions) Sign(email string) string {
	expires := s.now().Add(s.ttl).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(email)) + "." + strconv.FormatInt(expires, 10)
	return payload + "." + hex.EncodeToString(s.mac(payload))
}

// Verify returns the email carried by a signed, unexpired value.
func (s Sessions) Verify(value string) (string, bool) {
	if len(s.secret) == 0 {
		return "", false
	}
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload := parts[0] + "." + parts[1]

	provided, err := hex.DecodeString(parts[2])
	if err != nil || !hmac.Equal(provided, s.mac(payload)) {
		return "", false
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(decoded) == 0 {
		return "", false
	}
	return string(decoded), true
}

// SetCookie writes a session cookie for email.
func (s Sessions) SetCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Sign(email),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the signed-in email, if any.
func (s Sessions) FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	return s.Verify(cookie.Value)
}

// Service checks credentials against the users table.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// ValidateCredentials reports whether email and password match a stored user.
func (a *Service) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	var passwordHash string
	err := a.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, email).Scan(&passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user credentials: %w", err)
	}
	return CheckPassword(passwordHash, password), nil
}
