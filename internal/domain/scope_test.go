package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"main_admin", "school_admin", "teacher", "parent", "student"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestScope_AllowsStudent(t *testing.T) {
	school := uint(1)

	tests := []struct {
		name    string
		scope   Scope
		allowed bool
	}{
		{"unrestricted", Scope{All: true}, true},
		{"matching school", Scope{SchoolID: &school}, true},
		{"other school", Scope{SchoolID: uintPtr(2)}, false},
		{"listed student", Scope{StudentIDs: []uint{101}}, true},
		{"unlisted student", Scope{StudentIDs: []uint{102}}, false},
		{"empty list matches nothing", Scope{StudentIDs: []uint{}}, false},
		{"zero scope", Scope{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.scope.AllowsStudent(101, 1))
		})
	}
}

// An empty id list and a nil one mean different things: nil falls back to
// the school filter, empty matches nothing.
func TestScope_NilVersusEmptyStudentIDs(t *testing.T) {
	school := uint(1)

	nilList := Scope{SchoolID: &school}
	assert.True(t, nilList.AllowsStudent(999, 1))

	emptyList := Scope{SchoolID: &school, StudentIDs: []uint{}}
	assert.False(t, emptyList.AllowsStudent(999, 1))
}

func uintPtr(v uint) *uint {
	return &v
}
