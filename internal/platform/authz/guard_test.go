package authz

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/session"
)

// fakeSession is a hand-rolled SessionView.
type fakeSession struct {
	ready bool
	user  *session.User
}

func (f *fakeSession) Ready() bool           { return f.ready }
func (f *fakeSession) IsAuthenticated() bool { return f.user != nil }
func (f *fakeSession) User() *session.User   { return f.user }

func newTestGuard(sv SessionView) *Guard {
	return NewGuard(sv, DefaultRoutes(), zerolog.Nop())
}

func TestGuard_SessionNotReady(t *testing.T) {
	g := newTestGuard(&fakeSession{ready: false})
	d := g.Check("/patients")
	if d.Verdict != Pending {
		t.Errorf("expected Pending before restore, got %v", d.Verdict)
	}
}

func TestGuard_UnauthenticatedRedirectsToLogin(t *testing.T) {
	g := newTestGuard(&fakeSession{ready: true})
	d := g.Check("/patients/7")
	if d.Verdict != RedirectLogin {
		t.Fatalf("expected RedirectLogin, got %v", d.Verdict)
	}
	if d.From != "/patients/7" {
		t.Errorf("expected original route carried, got %q", d.From)
	}
}

func TestGuard_RoleIntersection(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		route string
		want  Verdict
	}{
		{"receptionist can create patients", []string{"ROLE_RECEPTIONIST"}, "/patients/new", Allow},
		{"doctor cannot create patients", []string{"ROLE_DOCTOR"}, "/patients/new", RedirectHome},
		{"doctor can view patients", []string{"ROLE_DOCTOR"}, "/patients", Allow},
		{"doctor can modify appointments", []string{"ROLE_DOCTOR"}, "/appointments/edit/3", Allow},
		{"nurse cannot modify appointments", []string{"ROLE_NURSE"}, "/appointments/new", RedirectHome},
		{"nurse can view appointments", []string{"ROLE_NURSE"}, "/appointments", Allow},
		{"lab tech can reach encounters", []string{"LAB_TECHNICIAN"}, "/encounters/12/lab-orders", Allow},
		{"receptionist cannot reach encounters", []string{"ROLE_RECEPTIONIST"}, "/encounters/12", RedirectHome},
		{"admin reaches admin routes", []string{"ROLE_ADMIN"}, "/admin/dashboard", Allow},
		{"patient denied admin routes", []string{"ROLE_PATIENT"}, "/admin/dashboard", RedirectHome},
		{"any role reaches profile", []string{"ROLE_PATIENT"}, "/profile", Allow},
		{"multi-role user allowed by any-of", []string{"ROLE_PATIENT", "ROLE_RECEPTIONIST"}, "/patients/new", Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGuard(&fakeSession{ready: true, user: &session.User{Username: "u", Roles: tt.roles}})
			d := g.Check(tt.route)
			if d.Verdict != tt.want {
				t.Errorf("route %s roles %v: expected %v, got %v", tt.route, tt.roles, tt.want, d.Verdict)
			}
		})
	}
}

func TestGuard_PublicRoutesBypassSession(t *testing.T) {
	// Not even ready: public routes must still render.
	g := newTestGuard(&fakeSession{ready: false})
	for _, route := range []string{"/", "/login", "/register", "/no/such/route"} {
		if d := g.Check(route); d.Verdict != Allow {
			t.Errorf("expected %s public, got %v", route, d.Verdict)
		}
	}
}

func TestRoutes_LongestPrefixWins(t *testing.T) {
	r := DefaultRoutes()

	p, ok := r.PolicyFor("/patients/new")
	if !ok {
		t.Fatal("expected /patients/new protected")
	}
	if p.Satisfied([]string{"ROLE_NURSE"}) {
		t.Error("expected modify policy (nurse excluded) for /patients/new")
	}

	p, ok = r.PolicyFor("/patients/42")
	if !ok {
		t.Fatal("expected /patients/42 protected")
	}
	if !p.Satisfied([]string{"ROLE_NURSE"}) {
		t.Error("expected view policy (nurse included) for /patients/42")
	}
}

func TestRoutes_PrefixBoundary(t *testing.T) {
	r := NewRoutes().Protect("/patients", RequireAny(RoleAdmin))
	if _, ok := r.PolicyFor("/patientsarchive"); ok {
		t.Error("expected no match across a segment boundary")
	}
	if _, ok := r.PolicyFor("/patients/7/encounters"); !ok {
		t.Error("expected nested path to match")
	}
}

func TestPolicy_EmptyMeansAnyAuthenticated(t *testing.T) {
	if !AnyAuthenticated.Satisfied(nil) {
		t.Error("unconstrained policy must accept any role set")
	}
	if !AnyAuthenticated.Satisfied([]string{"ROLE_PATIENT"}) {
		t.Error("unconstrained policy must accept any role set")
	}
}
