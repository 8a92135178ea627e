package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

var ErrNotAParent = errors.New("user is not a parent")

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	LinkChild(ctx context.Context, parentID, studentID uint) error
	FindChildIDs(ctx context.Context, parentID uint) ([]uint, error)
}

type UserService struct {
	repo     UserRepository
	students StudentRepository
	access   *AccessService
}

func NewUserService(repo UserRepository, students StudentRepository, access *AccessService) *UserService {
	return &UserService{
		repo:     repo,
		students: students,
		access:   access,
	}
}

// GetUser returns the account, with linked children populated for parents.
// Users may always read themselves; beyond that, account lookups are an
// admin operation contained to the caller's school. Accounts without a
// school affiliation (main_admin, parent) are visible to main_admin only:
// their containment cannot be proven.
func (s *UserService) GetUser(ctx context.Context, identity domain.Identity, id uint) (domain.User, error) {
	if id != identity.UserID && !s.access.CanManageRoster(identity) {
		return domain.User{}, ErrAccessDenied
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if id != identity.UserID {
		scope, err := s.access.Resolve(ctx, identity)
		if err != nil {
			return domain.User{}, err
		}
		if !scope.All && (user.SchoolID == nil || !scope.AllowsSchool(*user.SchoolID)) {
			return domain.User{}, ErrAccessDenied
		}
	}

	if user.Role == domain.RoleParent {
		children, err := s.repo.FindChildIDs(ctx, user.ID)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.FindChildIDs -> %w", err)
		}
		user.Children = children
	}

	return user, nil
}

// LinkChild attaches a student to a parent account. Linking is the only way
// a parent gains visibility of a student; there is no matching by name or
// email.
func (s *UserService) LinkChild(ctx context.Context, identity domain.Identity, parentID, studentID uint) error {
	if !s.access.CanManageRoster(identity) {
		return ErrAccessDenied
	}

	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if parent.Role != domain.RoleParent {
		return ErrNotAParent
	}

	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return ErrStudentNotFound
		}

		return fmt.Errorf("s.students.FindByID -> %w", err)
	}
	if !scope.AllowsSchool(student.SchoolID) {
		return ErrAccessDenied
	}

	if err := s.repo.LinkChild(ctx, parentID, studentID); err != nil {
		return fmt.Errorf("s.repo.LinkChild -> %w", err)
	}

	return nil
}
