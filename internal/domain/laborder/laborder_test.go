package laborder

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

func TestUpdateStatusQueryParameter(t *testing.T) {
	var gotMethod, gotPath, gotStatus string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotStatus = r.URL.Query().Get("status")
		json.NewEncoder(w).Encode(LabOrder{ID: 4, Status: StatusSampleCollected})
	}))

	updated, err := svc.UpdateStatus(context.Background(), 4, StatusSampleCollected)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/lab-orders/4/status" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotStatus != StatusSampleCollected {
		t.Errorf("status param = %q", gotStatus)
	}
	if updated.Status != StatusSampleCollected {
		t.Errorf("status = %q", updated.Status)
	}
}

func TestUpdateItemResultReturnsParentOrder(t *testing.T) {
	var gotPath string
	var gotBody ItemResult
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(LabOrder{
			ID:    4,
			Items: []Item{{ID: 9, ResultValue: gotBody.ResultValue, IsAbnormal: gotBody.IsAbnormal}},
		})
	}))

	updated, err := svc.UpdateItemResult(context.Background(), 4, 9, &ItemResult{
		ResultValue: "14.2",
		ResultUnit:  "g/dL",
		IsAbnormal:  true,
	})
	if err != nil {
		t.Fatalf("UpdateItemResult: %v", err)
	}
	if gotPath != "/lab-orders/4/item/9/result" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ResultUnit != "g/dL" || !gotBody.IsAbnormal {
		t.Errorf("body = %+v", gotBody)
	}
	if len(updated.Items) != 1 || updated.Items[0].ResultValue != "14.2" {
		t.Errorf("items = %+v", updated.Items)
	}
}

func TestSearchLabTestsEmptyTermListsCatalog(t *testing.T) {
	var gotQuery string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]LabTest{
			{ID: 1, TestName: "CBC", Category: "Hematology"},
			{ID: 2, TestName: "Lipid Panel"},
		})
	}))

	options := svc.SearchLabTests(context.Background(), "")
	if gotQuery != "" {
		t.Errorf("query = %q, want none", gotQuery)
	}
	if len(options) != 2 {
		t.Fatalf("len = %d", len(options))
	}
	if options[0].Label != "CBC (Category: Hematology)" {
		t.Errorf("label = %q", options[0].Label)
	}
	if options[1].Label != "Lipid Panel (Category: N/A)" {
		t.Errorf("label = %q", options[1].Label)
	}
}

func TestSearchLabTestsEmptyOnFailure(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	if options := svc.SearchLabTests(context.Background(), "cbc"); len(options) != 0 {
		t.Errorf("options = %v, want empty", options)
	}
}
