// Package authz works with the comma-separated role string stored on users.
package authz

import (
	"strings"
)

const (
	RoleAdmin       = "admin"
	RoleAdminNotify = "admin_notify"
)

// Parse splits a role string into trimmed, lowercased, de-duplicated roles.
func Parse(roles string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range strings.Split(roles, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// HasAnyRole reports whether the role string contains any of the given roles.
func HasAnyRole(roles string, want ...string) bool {
	have := Parse(roles)
	for _, w := range want {
		w = strings.ToLower(strings.TrimSpace(w))
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(roles, role string) bool {
	return HasAnyRole(roles, role)
}

func IsAdmin(roles string) bool {
	return HasRole(roles, RoleAdmin)
}

// ReceivesAdminAlerts reports whether signup alerts go to this user.
func ReceivesAdminAlerts(roles string) bool {
	return HasRole(roles, RoleAdmin) && HasRole(roles, RoleAdminNotify)
}

// AddRole returns roles with role appended, unless already present.
func AddRole(roles, role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	have := Parse(roles)
	if role == "" || HasRole(roles, role) {
		return strings.Join(have, ",")
	}
	return strings.Join(append(have, role), ",")
}

// RemoveRole returns roles without role.
func RemoveRole(roles, role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	var out []string
	for _, r := range Parse(roles) {
		if r != role {
			out = append(out, r)
		}
	}
	return strings.Join(out, ",")
}
