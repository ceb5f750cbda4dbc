package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/careline/careline/internal/platform/api"
)

func storeWithToken(t *testing.T, token string) *Store {
	t.Helper()
	storage := NewMemStorage()
	seedStorage(t, storage, token, &User{Username: "u", Roles: []string{"ROLE_DOCTOR"}})
	store := NewStore(storage, api.NewClient(""))
	store.Restore()
	return store
}

func TestTokenInfo_JWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "dr.singh",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	store := storeWithToken(t, raw)
	info := store.TokenInfo()
	if info == nil {
		t.Fatal("expected token info")
	}
	if info.Subject != "dr.singh" {
		t.Errorf("expected subject, got %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
	if info.Expired() {
		t.Error("expected token not expired")
	}
}

func TestTokenInfo_OpaqueToken(t *testing.T) {
	store := storeWithToken(t, "not-a-jwt")
	if info := store.TokenInfo(); info != nil {
		t.Errorf("expected nil info for opaque token, got %+v", info)
	}
}

func TestTokenInfo_NoSession(t *testing.T) {
	store := NewStore(NewMemStorage(), api.NewClient(""))
	store.Restore()
	if info := store.TokenInfo(); info != nil {
		t.Errorf("expected nil info without a session, got %+v", info)
	}
}
