package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/careline/careline/internal/carelinetest"
	"github.com/careline/careline/internal/forms"
	"github.com/careline/careline/internal/platform/authz"
)

func newTestApp(t *testing.T) (*app, *carelinetest.Backend) {
	t.Helper()
	backend := carelinetest.New(t)
	t.Setenv("API_BASE_URL", backend.URL())
	t.Setenv("STATE_DIR", t.TempDir())
	t.Setenv("ENV", "test")

	a, err := newApp()
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a, backend
}

func TestLoginThenCreatePatientAsReceptionist(t *testing.T) {
	a, backend := newTestApp(t)
	backend.AddAccount("front-desk", authz.RoleReceptionist)

	result := a.session.Login(context.Background(), "front-desk", carelinetest.Password)
	if !result.OK {
		t.Fatalf("login failed: %s", result.Message)
	}
	if err := a.authorize("/patients/new"); err != nil {
		t.Fatalf("receptionist denied patient creation: %v", err)
	}

	var draft forms.PatientDraft
	draft.Reset(nil)
	draft.FirstName = "Omar"
	draft.LastName = "Haddad"
	draft.DateOfBirth = "1985-03-12"
	draft.Gender = "MALE"
	if err := a.pages.CreatePatient(context.Background(), &draft); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if len(backend.Patients) != 1 {
		t.Errorf("backend has %d patients, want 1", len(backend.Patients))
	}
}

func TestDoctorCannotCreatePatients(t *testing.T) {
	a, backend := newTestApp(t)
	backend.AddAccount("dr-house", authz.RoleDoctor)

	if result := a.session.Login(context.Background(), "dr-house", carelinetest.Password); !result.OK {
		t.Fatalf("login failed: %s", result.Message)
	}
	if err := a.authorize("/patients"); err != nil {
		t.Errorf("doctor denied patient list: %v", err)
	}
	if err := a.authorize("/patients/new"); err == nil {
		t.Error("doctor allowed to create patients")
	}
	if err := a.authorize("/encounters"); err != nil {
		t.Errorf("doctor denied encounters: %v", err)
	}
}

func TestUnauthenticatedGatedCommandRedirectsToLogin(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.authorize("/patients"); err == nil {
		t.Error("anonymous session allowed through")
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	backend := carelinetest.New(t)
	stateDir := t.TempDir()
	t.Setenv("API_BASE_URL", backend.URL())
	t.Setenv("STATE_DIR", stateDir)
	t.Setenv("ENV", "test")
	backend.AddAccount("nurse-amy", authz.RoleNurse)

	first, err := newApp()
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if result := first.session.Login(context.Background(), "nurse-amy", carelinetest.Password); !result.OK {
		t.Fatalf("login failed: %s", result.Message)
	}

	// A fresh process restores the persisted session.
	second, err := newApp()
	if err != nil {
		t.Fatalf("second newApp: %v", err)
	}
	if !second.session.IsAuthenticated() {
		t.Fatal("restored session not authenticated")
	}
	if got := second.session.User().Username; got != "nurse-amy" {
		t.Errorf("restored user = %q", got)
	}

	second.session.Logout()
	if _, err := os.Stat(filepath.Join(stateDir, "token")); !os.IsNotExist(err) {
		t.Errorf("token file survived logout: %v", err)
	}

	third, err := newApp()
	if err != nil {
		t.Fatalf("third newApp: %v", err)
	}
	if third.session.IsAuthenticated() {
		t.Error("session survived logout")
	}
}

func TestFailedLoginLeavesNoState(t *testing.T) {
	a, backend := newTestApp(t)
	backend.AddAccount("front-desk", authz.RoleReceptionist)

	result := a.session.Login(context.Background(), "front-desk", "wrong-password")
	if result.OK {
		t.Fatal("login succeeded with wrong password")
	}
	if result.Message != "Invalid username or password" {
		t.Errorf("message = %q", result.Message)
	}
	if a.session.IsAuthenticated() {
		t.Error("session authenticated after failed login")
	}
}
