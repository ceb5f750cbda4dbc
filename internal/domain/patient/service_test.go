package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL)
	return NewService(client, zerolog.Nop()), srv
}

func TestSearchUsesQueryEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		json.NewEncoder(w).Encode([]Patient{{ID: 4, FirstName: "Ana", LastName: "Silva"}})
	}))

	patients, err := svc.Search(context.Background(), "ana silva")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/patients/search" {
		t.Errorf("path = %q, want /patients/search", gotPath)
	}
	if gotQuery != "ana silva" {
		t.Errorf("query = %q, want %q", gotQuery, "ana silva")
	}
	if len(patients) != 1 || patients[0].ID != 4 {
		t.Errorf("unexpected result: %+v", patients)
	}
}

func TestSearchEmptyQueryFallsBackToList(t *testing.T) {
	var gotPath string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Patient{})
	}))

	if _, err := svc.Search(context.Background(), ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/patients" {
		t.Errorf("path = %q, want /patients", gotPath)
	}
}

func TestCreateReturnsServerAssignedID(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var p Patient
		json.NewDecoder(r.Body).Decode(&p)
		p.ID = 42
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}))

	created, err := svc.Create(context.Background(), &Patient{FirstName: "Omar", LastName: "Haddad"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("ID = %d, want 42", created.ID)
	}
}

func TestSelectorOptionsLabels(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Patient{
			{ID: 1, FirstName: "Ana", LastName: "Silva"},
			{ID: 2, FirstName: "Omar", LastName: "Haddad"},
		})
	}))

	options := svc.SelectorOptions(context.Background())
	if len(options) != 2 {
		t.Fatalf("len = %d, want 2", len(options))
	}
	if options[0].Label != "Ana Silva (ID: 1)" {
		t.Errorf("label = %q", options[0].Label)
	}
	if options[1].Value != 2 {
		t.Errorf("value = %d, want 2", options[1].Value)
	}
}

func TestSelectorOptionsEmptyOnBackendFailure(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	options := svc.SelectorOptions(context.Background())
	if options == nil || len(options) != 0 {
		t.Errorf("options = %v, want empty non-nil slice", options)
	}
}

func TestDeleteTargetsResourceID(t *testing.T) {
	var gotMethod, gotPath string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := svc.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/patients/9" {
		t.Errorf("request = %s %s, want DELETE /patients/9", gotMethod, gotPath)
	}
}
