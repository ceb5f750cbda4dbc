package authz

import "strings"

// route binds a path prefix to a policy. Longest prefix wins so
// "/patients/new" can carry a stricter policy than "/patients".
type route struct {
	prefix string
	policy Policy
}

// Routes is the declarative route table. Paths absent from the table are
// public.
type Routes struct {
	entries []route
}

// NewRoutes creates an empty route table.
func NewRoutes() *Routes {
	return &Routes{}
}

// Protect registers a policy for every route under the given prefix.
func (r *Routes) Protect(prefix string, policy Policy) *Routes {
	r.entries = append(r.entries, route{prefix: prefix, policy: policy})
	return r
}

// PolicyFor returns the policy of the longest matching registered prefix and
// whether the route is protected at all.
func (r *Routes) PolicyFor(path string) (Policy, bool) {
	var best *route
	for i := range r.entries {
		e := &r.entries[i]
		if !matchesPrefix(path, e.prefix) {
			continue
		}
		if best == nil || len(e.prefix) > len(best.prefix) {
			best = e
		}
	}
	if best == nil {
		return Policy{}, false
	}
	return best.policy, true
}

// matchesPrefix reports whether path equals prefix or sits under it as a
// path segment boundary ("/patients" matches "/patients/7", not
// "/patientsX").
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// DefaultRoutes is the application route table: the view/modify split for
// patients and appointments, the clinical-staff group for encounter and EMR
// management, the any-authenticated profile route, and the admin group.
// Home, login, register and unknown routes stay public.
func DefaultRoutes() *Routes {
	patientView := RequireAny(RoleAdmin, RoleReceptionist, RoleDoctor, RoleNurse)
	patientModify := RequireAny(RoleAdmin, RoleReceptionist)
	appointmentView := RequireAny(RoleAdmin, RoleReceptionist, RoleDoctor, RoleNurse)
	appointmentModify := RequireAny(RoleAdmin, RoleReceptionist, RoleDoctor)
	clinicalStaff := RequireAny(RoleAdmin, RoleDoctor, RoleNurse, RoleLabTechnician)

	r := NewRoutes()
	r.Protect("/patients", patientView)
	r.Protect("/patients/new", patientModify)
	r.Protect("/patients/edit", patientModify)
	r.Protect("/patients/delete", patientModify)
	r.Protect("/appointments", appointmentView)
	r.Protect("/appointments/new", appointmentModify)
	r.Protect("/appointments/edit", appointmentModify)
	r.Protect("/encounters", clinicalStaff)
	r.Protect("/profile", AnyAuthenticated)
	r.Protect("/admin", RequireAny(RoleAdmin))
	return r
}
