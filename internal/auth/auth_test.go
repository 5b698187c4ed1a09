package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "Secret123"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := ComparePassword(hash, "secret123"); err == nil {
		t.Fatal("expected mismatch")
	}
}

func TestTokenIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", time.Hour)

	token, expires, err := issuer.Issue("user-1", "admin", "sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) > time.Hour || time.Until(expires) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", expires)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.ID != "sess-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", time.Hour)
	token, _, err := issuer.Issue("user-1", "user", "sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokenIssuer("fedcba9876543210", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected signature failure")
	}

	later := NewTokenIssuer("0123456789abcdef", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no session")
	}
	s := &Session{UserID: "u", Role: "admin"}
	got, ok := FromContext(WithSession(context.Background(), s))
	if !ok || got != s || !got.IsAdmin() {
		t.Fatalf("unexpected session %+v", got)
	}
	var none *Session
	if none.IsAdmin() {
		t.Fatal("nil session is not admin")
	}
}

func TestGmailTokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")

	if _, err := tokenFromFile(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
	if err := saveToken(path, &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	tok, err := tokenFromFile(path)
	if err != nil || tok.AccessToken != "abc" {
		t.Fatalf("unexpected token %+v (%v)", tok, err)
	}
}

func TestGetGmailClientWithoutCredentials(t *testing.T) {
	dir := t.TempDir()
	_, err := GetGmailClient(context.Background(), filepath.Join(dir, "missing.json"), filepath.Join(dir, "token.json"))
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
