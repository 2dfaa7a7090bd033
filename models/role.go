package models

import (
	"slices"
	"strings"
)

type Role int

const (
	NO_ROLE Role = iota
	VIEWER
	OPERATOR
	MANAGER
	ADMIN
)

func (r Role) String() string {
	switch r {
	case NO_ROLE:
		return "NO_ROLE"
	case VIEWER:
		return "VIEWER"
	case OPERATOR:
		return "OPERATOR"
	case MANAGER:
		return "MANAGER"
	case ADMIN:
		return "ADMIN"
	default:
		return "UNKNOWN_ROLE"
	}
}

func (r Role) Permissions() []Permission {
	permissions := ROLES_PERMISSIONS[r]
	if permissions == nil {
		return []Permission{}
	}
	return permissions
}

func (r Role) HasPermission(permission Permission) bool {
	return slices.Contains(r.Permissions(), permission)
}

// RoleFromString accepts the lower case role names issued by the authentication service
// as well as the upper case names used internally.
func RoleFromString(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VIEWER":
		return VIEWER
	case "OPERATOR":
		return OPERATOR
	case "MANAGER":
		return MANAGER
	case "ADMIN":
		return ADMIN
	}
	return NO_ROLE
}
