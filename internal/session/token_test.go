package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	if got := store.Token(); got != "" {
		t.Fatalf("expected empty token before save, got %q", got)
	}

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh store re-reads from disk.
	if got := NewFileTokenStore(path).Token(); got != "abc123" {
		t.Errorf("expected persisted token, got %q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 token file, got %o", perm)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Errorf("expected empty token after clear, got %q", got)
	}
	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("repeat clear: %v", err)
	}
}

func TestExpired(t *testing.T) {
	t.Parallel()

	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
		s, err := tok.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		return s
	}

	if Expired(sign(time.Now().Add(time.Hour))) {
		t.Error("future expiry reported as expired")
	}
	if !Expired(sign(time.Now().Add(-time.Minute))) {
		t.Error("past expiry not reported as expired")
	}

	// Tokens we cannot parse are the server's problem, not ours.
	if Expired("not-a-jwt") {
		t.Error("opaque token must not be treated as expired")
	}
	if Expired("") {
		t.Error("empty token must not be treated as expired")
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	if Expired(noExp) {
		t.Error("token without exp claim must not be treated as expired")
	}
}
