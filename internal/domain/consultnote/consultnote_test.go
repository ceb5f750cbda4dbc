package consultnote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(api.NewClient(srv.URL), zerolog.Nop())
}

func TestSaveOrUpdateCreatesWithoutID(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var n Note
		json.NewDecoder(r.Body).Decode(&n)
		n.ID = 11
		json.NewEncoder(w).Encode(n)
	}))

	saved, err := svc.SaveOrUpdate(context.Background(), &Note{EncounterID: 5, Symptoms: "fever"})
	if err != nil {
		t.Fatalf("SaveOrUpdate: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/consultation-notes" {
		t.Errorf("request = %s %s, want POST /consultation-notes", gotMethod, gotPath)
	}
	if saved.ID != 11 {
		t.Errorf("ID = %d, want 11", saved.ID)
	}
}

func TestSaveOrUpdateUpdatesWithID(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Note{ID: 11, Assessment: "updated"})
	}))

	saved, err := svc.SaveOrUpdate(context.Background(), &Note{ID: 11, EncounterID: 5})
	if err != nil {
		t.Fatalf("SaveOrUpdate: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/consultation-notes/11" {
		t.Errorf("request = %s %s, want PUT /consultation-notes/11", gotMethod, gotPath)
	}
	if saved.Assessment != "updated" {
		t.Errorf("assessment = %q", saved.Assessment)
	}
}

func TestByEncounterMissingNoteIs404(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no note for encounter"})
	}))

	_, err := svc.ByEncounter(context.Background(), 5)
	if !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
}
