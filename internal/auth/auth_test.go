package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/mouldquote/internal/db"
	"github.com/Simplici0/mouldquote/internal/migrations"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func newSessions(t *testing.T, secret string) Sessions {
	t.Helper()
	s, err := NewSessions(secret, time.Hour, false)
	require.NoError(t, err)
	return s
}

func TestNewSessions_RejectsEmptySecret(t *testing.T) {
	_, err := NewSessions("", time.Hour, false)
	require.ErrorIs(t, err, ErrEmptySecret)

	// A zero-value Sessions has no secret and must not accept anything.
	forged := newSessions(t, "x").Sign("office@example.com")
	_, ok := Sessions{}.Verify(forged)
	assert.False(t, ok)
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	require.NoError(t, err)
	b, err := RandomSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSessions_SignAndVerify(t *testing.T) {
	s := newSessions(t, "secret")

	value := s.Sign("office@example.com")
	email, ok := s.Verify(value)
	require.True(t, ok)
	assert.Equal(t, "office@example.com", email)

	_, ok = newSessions(t, "other").Verify(value)
	assert.False(t, ok, "value signed with another secret must not verify")

	for _, bad := range []string{"", "nodot", "a.b", "a.b.c", value + "00", "." + value, value + ".x"} {
		_, ok := s.Verify(bad)
		assert.False(t, ok, "value %q", bad)
	}
}

func TestSessions_Expiry(t *testing.T) {
	s := newSessions(t, "secret")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	value := s.Sign("office@example.com")

	s.now = func() time.Time { return start.Add(59 * time.Minute) }
	_, ok := s.Verify(value)
	assert.True(t, ok, "still inside the ttl")

	s.now = func() time.Time { return start.Add(time.Hour) }
	_, ok = s.Verify(value)
	assert.False(t, ok, "expired value must not verify")
}

func TestSessions_CookieRoundTrip(t *testing.T) {
	s := newSessions(t, "secret")

	rr := httptest.NewRecorder()
	s.SetCookie(rr, "office@example.com")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.False(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	email, ok := s.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, "office@example.com", email)

	_, ok = s.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestSessions_SecureCookie(t *testing.T) {
	s, err := NewSessions("secret", 0, true)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	s.SetCookie(rr, "office@example.com")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, int(DefaultSessionTTL/time.Second), cookies[0].MaxAge)
}

func TestService_ValidateCredentials(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "auth-test.db"))
	require.NoError(t, err)
	defer database.Close()
	_, err = migrations.Up(ctx, database)
	require.NoError(t, err)

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, "office@example.com", hash)
	require.NoError(t, err)

	svc := NewService(database)

	ok, err := svc.ValidateCredentials(ctx, "office@example.com", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ValidateCredentials(ctx, "office@example.com", "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ValidateCredentials(ctx, "nobody@example.com", "s3cret")
	require.NoError(t, err)
	assert.False(t, ok)
}
