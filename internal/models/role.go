package models

// Role is an access tag drawn from the fixed role vocabulary.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleTrainer    Role = "trainer"
	RoleMember     Role = "member"
	RoleVarious    Role = "various"
)

// Roles lists every recognised role in priority order.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleTrainer, RoleMember, RoleVarious}

// IsValidRole reports whether raw names a recognised role.
func IsValidRole(raw string) bool {
	for _, r := range Roles {
		if string(r) == raw {
			return true
		}
	}
	return false
}

// FilterRoles keeps the recognised tags of raw in their original order and
// returns the ones it dropped.
func FilterRoles(raw []string) (kept []Role, dropped []string) {
	kept = make([]Role, 0, len(raw))
	for _, tag := range raw {
		if IsValidRole(tag) {
			kept = append(kept, Role(tag))
			continue
		}
		dropped = append(dropped, tag)
	}
	return kept, dropped
}
