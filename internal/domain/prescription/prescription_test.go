package prescription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewService(api.NewClient(srv.URL), zerolog.Nop()), &hits
}

func TestSearchMedicationsShortTermSkipsNetwork(t *testing.T) {
	svc, hits := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Medication{})
	}))

	for _, term := range []string{"", " ", "a", " a "} {
		if options := svc.SearchMedications(context.Background(), term); len(options) != 0 {
			t.Errorf("SearchMedications(%q) = %v, want empty", term, options)
		}
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("backend hit %d times for short terms", n)
	}
}

func TestSearchMedicationsLabels(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "amox" {
			t.Errorf("name param = %q", got)
		}
		json.NewEncoder(w).Encode([]Medication{
			{ID: 1, MedicationName: "Amoxicillin", Strength: "500mg", Form: "Capsule"},
			{ID: 2, MedicationName: "Amoxiclav"},
		})
	}))

	options := svc.SearchMedications(context.Background(), "amox")
	if len(options) != 2 {
		t.Fatalf("len = %d", len(options))
	}
	if options[0].Label != "Amoxicillin (500mg, Capsule)" {
		t.Errorf("label = %q", options[0].Label)
	}
	if options[1].Label != "Amoxiclav (N/A, N/A)" {
		t.Errorf("label = %q", options[1].Label)
	}
}

func TestSearchMedicationsEmptyOnFailure(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if options := svc.SearchMedications(context.Background(), "amox"); len(options) != 0 {
		t.Errorf("options = %v, want empty", options)
	}
}

func TestUpdateHitsPrescriptionID(t *testing.T) {
	var gotMethod, gotPath string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Prescription{ID: 6})
	}))

	_, err := svc.Update(context.Background(), 6, &Prescription{
		EncounterID: 2,
		Items:       []Item{{MedicationID: 1, Dosage: "500mg", Frequency: "TID"}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/prescriptions/6" {
		t.Errorf("request = %s %s, want PUT /prescriptions/6", gotMethod, gotPath)
	}
}

func TestByEncounterNoneIssuedIs404(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := svc.ByEncounter(context.Background(), 2)
	if !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
}
