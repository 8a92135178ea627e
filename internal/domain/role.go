package domain

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of account roles. Role checks live in the access
// resolver, not in handlers, so the string values appear here only.
type Role string

const (
	RoleMainAdmin   Role = "main_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleParent      Role = "parent"
	RoleStudent     Role = "student" // reserved, no endpoint exercises it
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMainAdmin, RoleSchoolAdmin, RoleTeacher, RoleParent, RoleStudent:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// RequiresSchool reports whether accounts with this role must be attached
// to a school.
func (r Role) RequiresSchool() bool {
	return r == RoleSchoolAdmin || r == RoleTeacher
}
