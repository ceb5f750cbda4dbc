// Package authz decides, per navigation, whether the current session may
// reach a route. Policies are declarative data attached to route groups; the
// Guard holds the single decision algorithm.
package authz

// Role tags understood by the backend. They are opaque to the guard, which
// only ever intersects sets.
const (
	RoleAdmin         = "ROLE_ADMIN"
	RoleReceptionist  = "ROLE_RECEPTIONIST"
	RoleDoctor        = "ROLE_DOCTOR"
	RoleNurse         = "ROLE_NURSE"
	RoleLabTechnician = "LAB_TECHNICIAN"
	RolePatient       = "ROLE_PATIENT"
)

// Policy is the authorization requirement of a route group. A nil or empty
// AllowedRoles means any authenticated user may enter.
type Policy struct {
	AllowedRoles []string
}

// AnyAuthenticated is the policy for routes open to every logged-in user.
var AnyAuthenticated = Policy{}

// RequireAny builds a policy satisfied by holding at least one of the roles.
func RequireAny(roles ...string) Policy {
	return Policy{AllowedRoles: roles}
}

// Satisfied reports whether the given role set intersects the policy's
// allowed set. An unconstrained policy is satisfied by any role set.
func (p Policy) Satisfied(userRoles []string) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range p.AllowedRoles {
		for _, have := range userRoles {
			if have == allowed {
				return true
			}
		}
	}
	return false
}
