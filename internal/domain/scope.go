package domain

// Scope is the query-shaping result of resolving an identity. Repositories
// apply it to every list operation; services check it on by-id access so a
// guessed id cannot bypass the list filters.
type Scope struct {
	// All grants unrestricted access (main_admin).
	All bool
	// SchoolID restricts rows to one school when set.
	SchoolID *uint
	// StudentIDs restricts rows to the listed students when non-nil
	// (parents). An empty non-nil slice matches nothing.
	StudentIDs []uint
	// ReadOnly forbids every mutation, including scan submissions.
	ReadOnly bool
}

// AllowsSchool reports whether entities of the given school are visible.
func (s Scope) AllowsSchool(schoolID uint) bool {
	if s.All {
		return true
	}
	return s.SchoolID != nil && *s.SchoolID == schoolID
}

// AllowsStudent reports whether a student row is visible, given the
// student's id and school.
func (s Scope) AllowsStudent(studentID, schoolID uint) bool {
	if s.All {
		return true
	}
	if s.StudentIDs != nil {
		for _, id := range s.StudentIDs {
			if id == studentID {
				return true
			}
		}
		return false
	}
	return s.AllowsSchool(schoolID)
}
