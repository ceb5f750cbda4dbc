package encounter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/consultnote"
	"github.com/careline/careline/internal/domain/diagnosis"
	"github.com/careline/careline/internal/domain/laborder"
	"github.com/careline/careline/internal/domain/prescription"
	"github.com/careline/careline/internal/domain/vitalsign"
	"github.com/careline/careline/internal/platform/api"
)

var errNotFound = &api.Error{StatusCode: 404, Message: "not found"}

type fakeEncounters struct {
	enc   *Encounter
	err   error
	calls int32
}

func (f *fakeEncounters) Get(ctx context.Context, id int64) (*Encounter, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.enc, f.err
}

type fakeNotes struct {
	note  *consultnote.Note
	err   error
	calls int32
}

func (f *fakeNotes) ByEncounter(ctx context.Context, id int64) (*consultnote.Note, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.note, f.err
}

type fakeVitals struct {
	vitals []vitalsign.VitalSign
	err    error
	calls  int32
}

func (f *fakeVitals) ByEncounter(ctx context.Context, id int64) ([]vitalsign.VitalSign, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.vitals, f.err
}

type fakeDiagnoses struct {
	diagnoses []diagnosis.Diagnosis
	err       error
	calls     int32
}

func (f *fakeDiagnoses) ByEncounter(ctx context.Context, id int64) ([]diagnosis.Diagnosis, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.diagnoses, f.err
}

type fakePrescriptions struct {
	pres  *prescription.Prescription
	err   error
	calls int32
}

func (f *fakePrescriptions) ByEncounter(ctx context.Context, id int64) (*prescription.Prescription, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.pres, f.err
}

type fakeLabOrders struct {
	orders []laborder.LabOrder
	err    error
	calls  int32
}

func (f *fakeLabOrders) ByEncounter(ctx context.Context, id int64) ([]laborder.LabOrder, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.orders, f.err
}

type loaderFixture struct {
	loader        *DetailsLoader
	encounters    *fakeEncounters
	notes         *fakeNotes
	vitals        *fakeVitals
	diagnoses     *fakeDiagnoses
	prescriptions *fakePrescriptions
	labOrders     *fakeLabOrders
}

func newLoaderFixture() *loaderFixture {
	f := &loaderFixture{
		encounters:    &fakeEncounters{enc: &Encounter{ID: 10, PatientID: 3}},
		notes:         &fakeNotes{},
		vitals:        &fakeVitals{},
		diagnoses:     &fakeDiagnoses{},
		prescriptions: &fakePrescriptions{},
		labOrders:     &fakeLabOrders{},
	}
	f.loader = &DetailsLoader{
		Encounters:    f.encounters,
		Notes:         f.notes,
		Vitals:        f.vitals,
		Diagnoses:     f.diagnoses,
		Prescriptions: f.prescriptions,
		LabOrders:     f.labOrders,
		Logger:        zerolog.Nop(),
	}
	return f
}

func TestLoadAssemblesAllSections(t *testing.T) {
	f := newLoaderFixture()
	f.notes.note = &consultnote.Note{ID: 1, Symptoms: "cough"}
	f.vitals.vitals = []vitalsign.VitalSign{{ID: 2}}
	f.diagnoses.diagnoses = []diagnosis.Diagnosis{{ID: 3, DiagnosisCode: "J06.9"}}
	f.prescriptions.pres = &prescription.Prescription{ID: 4}
	f.labOrders.orders = []laborder.LabOrder{{ID: 5, Status: laborder.StatusOrdered}}

	d, err := f.loader.Load(context.Background(), 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Encounter.ID != 10 {
		t.Errorf("encounter ID = %d", d.Encounter.ID)
	}
	if d.Note == nil || d.Note.Symptoms != "cough" {
		t.Errorf("note = %+v", d.Note)
	}
	if len(d.VitalSigns) != 1 || len(d.Diagnoses) != 1 || len(d.LabOrders) != 1 {
		t.Errorf("sections = %d vitals, %d diagnoses, %d lab orders",
			len(d.VitalSigns), len(d.Diagnoses), len(d.LabOrders))
	}
	if d.Prescription == nil || d.Prescription.ID != 4 {
		t.Errorf("prescription = %+v", d.Prescription)
	}
}

func TestLoadEncounterFailureAbortsSubFetches(t *testing.T) {
	f := newLoaderFixture()
	f.encounters.enc = nil
	f.encounters.err = errNotFound

	d, err := f.loader.Load(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
	if d != nil {
		t.Errorf("details = %+v, want nil", d)
	}
	for name, calls := range map[string]*int32{
		"notes":         &f.notes.calls,
		"vitals":        &f.vitals.calls,
		"diagnoses":     &f.diagnoses.calls,
		"prescriptions": &f.prescriptions.calls,
		"lab orders":    &f.labOrders.calls,
	} {
		if n := atomic.LoadInt32(calls); n != 0 {
			t.Errorf("%s fetched %d times despite encounter failure", name, n)
		}
	}
}

func TestLoadMissingRecordsYieldEmptySections(t *testing.T) {
	f := newLoaderFixture()
	f.notes.err = errNotFound
	f.prescriptions.err = errNotFound
	f.vitals.err = errNotFound
	f.diagnoses.err = errNotFound
	f.labOrders.err = errNotFound

	d, err := f.loader.Load(context.Background(), 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Note != nil || d.Prescription != nil {
		t.Errorf("note = %+v, prescription = %+v, want nil", d.Note, d.Prescription)
	}
	if d.VitalSigns == nil || len(d.VitalSigns) != 0 {
		t.Errorf("vitals = %#v, want empty non-nil", d.VitalSigns)
	}
	if d.Diagnoses == nil || len(d.Diagnoses) != 0 {
		t.Errorf("diagnoses = %#v, want empty non-nil", d.Diagnoses)
	}
	if d.LabOrders == nil || len(d.LabOrders) != 0 {
		t.Errorf("lab orders = %#v, want empty non-nil", d.LabOrders)
	}
}

func TestLoadOneFailingSectionDoesNotSinkTheOthers(t *testing.T) {
	f := newLoaderFixture()
	f.vitals.err = errors.New("backend exploded")
	f.diagnoses.diagnoses = []diagnosis.Diagnosis{{ID: 1}}
	f.notes.note = &consultnote.Note{ID: 2}

	d, err := f.loader.Load(context.Background(), 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.VitalSigns) != 0 {
		t.Errorf("vitals = %+v, want empty", d.VitalSigns)
	}
	if len(d.Diagnoses) != 1 {
		t.Errorf("diagnoses = %+v, want 1", d.Diagnoses)
	}
	if d.Note == nil {
		t.Error("note lost alongside unrelated failure")
	}
}

func TestLoadAllSourcesFetchedExactlyOnce(t *testing.T) {
	f := newLoaderFixture()

	if _, err := f.loader.Load(context.Background(), 10); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for name, calls := range map[string]*int32{
		"encounter":     &f.encounters.calls,
		"notes":         &f.notes.calls,
		"vitals":        &f.vitals.calls,
		"diagnoses":     &f.diagnoses.calls,
		"prescriptions": &f.prescriptions.calls,
		"lab orders":    &f.labOrders.calls,
	} {
		if n := atomic.LoadInt32(calls); n != 1 {
			t.Errorf("%s fetched %d times, want 1", name, n)
		}
	}
}
