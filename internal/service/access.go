package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
)

var ErrAccessDenied = errors.New("access denied")

type AccessUserRepository interface {
	FindChildIDs(ctx context.Context, parentID uint) ([]uint, error)
}

// AccessService is the single place where roles map to data scopes. Handlers
// and other services ask it for a Scope or a yes/no on a mutation; none of
// them compare role strings themselves.
type AccessService struct {
	users AccessUserRepository
}

func NewAccessService(users AccessUserRepository) *AccessService {
	return &AccessService{
		users: users,
	}
}

// Resolve computes the visibility scope for an identity. Parent scopes are
// built from the current link table, not from token contents, so re-linking
// a child takes effect without re-login.
func (s *AccessService) Resolve(ctx context.Context, identity domain.Identity) (domain.Scope, error) {
	switch identity.Role {
	case domain.RoleMainAdmin:
		return domain.Scope{All: true}, nil

	case domain.RoleSchoolAdmin, domain.RoleTeacher:
		if identity.SchoolID == nil {
			return domain.Scope{}, fmt.Errorf("%w: %s token without school", ErrAccessDenied, identity.Role)
		}
		return domain.Scope{SchoolID: identity.SchoolID}, nil

	case domain.RoleParent:
		children, err := s.users.FindChildIDs(ctx, identity.UserID)
		if err != nil {
			return domain.Scope{}, fmt.Errorf("s.users.FindChildIDs -> %w", err)
		}
		if children == nil {
			children = []uint{}
		}
		return domain.Scope{StudentIDs: children, ReadOnly: true}, nil

	case domain.RoleStudent:
		// Reserved role: authenticates but resolves to an empty scope.
		return domain.Scope{StudentIDs: []uint{}, ReadOnly: true}, nil

	default:
		return domain.Scope{}, fmt.Errorf("%w: unknown role %q", ErrAccessDenied, identity.Role)
	}
}

// CanManageSchools gates school CRUD.
func (s *AccessService) CanManageSchools(identity domain.Identity) bool {
	return identity.Role == domain.RoleMainAdmin
}

// CanManageRoster gates student and event CRUD within the identity's scope.
func (s *AccessService) CanManageRoster(identity domain.Identity) bool {
	switch identity.Role {
	case domain.RoleMainAdmin, domain.RoleSchoolAdmin:
		return true
	default:
		return false
	}
}

// CanRecordScans reports whether the identity may submit scans. Teachers may
// record for any event of their school regardless of assignment; assignment
// only restricts event editing.
func (s *AccessService) CanRecordScans(identity domain.Identity) bool {
	switch identity.Role {
	case domain.RoleMainAdmin, domain.RoleSchoolAdmin, domain.RoleTeacher:
		return true
	default:
		return false
	}
}

// CanDeleteAttendance gates hard deletes of attendance records; the school
// containment check happens where the record is loaded.
func (s *AccessService) CanDeleteAttendance(identity domain.Identity) bool {
	switch identity.Role {
	case domain.RoleMainAdmin, domain.RoleSchoolAdmin:
		return true
	default:
		return false
	}
}
