package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_InjectsFreshToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	token := ""
	c := NewClient(srv.URL, WithTokenSource(func() string { return token }))

	var out map[string]interface{}
	if err := c.Get(context.Background(), "/patients", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token = "abc123"
	if err := c.Get(context.Background(), "/patients", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen[0] != "" {
		t.Errorf("expected no Authorization header before login, got %q", seen[0])
	}
	if seen[1] != "Bearer abc123" {
		t.Errorf("expected fresh token after login, got %q", seen[1])
	}
}

func TestClient_SetsRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var out []string
	if err := c.Get(context.Background(), "/doctors", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	fired := 0
	c := NewClient(srv.URL, WithUnauthorizedHook(func() { fired++ }))

	err := c.Get(context.Background(), "/patients", nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if fired != 1 {
		t.Errorf("expected hook fired once, got %d", fired)
	}
	// The error still carries the backend message for the caller.
	apiErr := err.(*Error)
	if apiErr.Message != "token expired" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestClient_NoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var out map[string]interface{}
	if err := c.Delete(context.Background(), "/appointments/1/cancel", &out); err != nil {
		t.Fatalf("unexpected error on empty body: %v", err)
	}
}

func TestErrorFromBody_Precedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string body", `"Username is already taken"`, "Username is already taken"},
		{"message field", `{"message":"Invalid credentials","code":"AUTH"}`, "Invalid credentials"},
		{"field errors joined", `{"firstName":"must not be blank","email":"invalid email"}`, "invalid email, must not be blank"},
		{"plain text", `boom`, "boom"},
		{"empty body", ``, "Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := errorFromBody(http.StatusBadRequest, []byte(tt.body))
			if e.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, e.Message)
			}
		})
	}
}

func TestErrorFromBody_MessageFieldWinsOverFieldErrors(t *testing.T) {
	e := errorFromBody(http.StatusBadRequest, []byte(`{"message":"top-level","firstName":"blank"}`))
	if e.Message != "top-level" {
		t.Errorf("expected message field to take precedence, got %q", e.Message)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&Error{StatusCode: http.StatusNotFound}) {
		t.Error("expected 404 to be recognized")
	}
	if IsNotFound(&Error{StatusCode: http.StatusInternalServerError}) {
		t.Error("expected 500 to not be a not-found")
	}
	if IsNotFound(context.Canceled) {
		t.Error("expected non-api error to not be a not-found")
	}
}
