package authz

import (
	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/session"
)

// Verdict classifies the outcome of a guard check.
type Verdict int

const (
	// Pending means the session restore has not completed yet; show a
	// placeholder, do not redirect.
	Pending Verdict = iota
	// Allow renders the protected content.
	Allow
	// RedirectLogin sends the user to the login route, remembering where
	// they were headed.
	RedirectLogin
	// RedirectHome silently sends an authenticated-but-unauthorized user
	// home.
	RedirectHome
)

// Decision is the result of evaluating one navigation attempt.
type Decision struct {
	Verdict Verdict
	// From is the originally-requested route, set on RedirectLogin so the
	// login flow can return the user there.
	From string
}

// SessionView is the slice of session state the guard consults.
type SessionView interface {
	Ready() bool
	IsAuthenticated() bool
	User() *session.User
}

// Guard evaluates route policies against the current session.
type Guard struct {
	session SessionView
	routes  *Routes
	logger  zerolog.Logger
}

// NewGuard creates a Guard over the session view and route table.
func NewGuard(sv SessionView, routes *Routes, logger zerolog.Logger) *Guard {
	return &Guard{session: sv, routes: routes, logger: logger}
}

// Check runs the per-navigation state machine, in order: readiness, then
// authentication, then role intersection.
func (g *Guard) Check(route string) Decision {
	policy, protected := g.routes.PolicyFor(route)
	if !protected {
		return Decision{Verdict: Allow}
	}

	if !g.session.Ready() {
		return Decision{Verdict: Pending}
	}

	if !g.session.IsAuthenticated() {
		return Decision{Verdict: RedirectLogin, From: route}
	}

	user := g.session.User()
	if !policy.Satisfied(user.Roles) {
		// Silent for the user; operators get the warning.
		g.logger.Warn().
			Str("user", user.Username).
			Strs("roles", user.Roles).
			Strs("required", policy.AllowedRoles).
			Str("route", route).
			Msg("role check failed, redirecting home")
		return Decision{Verdict: RedirectHome}
	}

	return Decision{Verdict: Allow}
}
