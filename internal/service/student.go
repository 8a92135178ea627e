package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

var ErrStudentQRCodeExists = repository.ErrStudentQRCodeExists

type StudentRepository interface {
	Create(ctx context.Context, student domain.Student) (domain.Student, error)
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Student, error)
	FindAll(ctx context.Context, scope domain.Scope) ([]domain.Student, error)
	Update(ctx context.Context, student domain.Student) (domain.Student, error)
	Delete(ctx context.Context, id uint) error
}

type StudentService struct {
	repo   StudentRepository
	access *AccessService
}

func NewStudentService(repo StudentRepository, access *AccessService) *StudentService {
	return &StudentService{
		repo:   repo,
		access: access,
	}
}

// CreateStudent assigns the QR code server-side. The code is an opaque
// correlation key, unique across all schools and immutable afterwards.
func (s *StudentService) CreateStudent(ctx context.Context, identity domain.Identity, student domain.Student) (domain.Student, error) {
	if !s.access.CanManageRoster(identity) {
		return domain.Student{}, ErrAccessDenied
	}

	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.Student{}, err
	}
	if !scope.AllowsSchool(student.SchoolID) {
		return domain.Student{}, ErrAccessDenied
	}

	student.QRCode = uuid.NewString()

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *StudentService) GetStudent(ctx context.Context, identity domain.Identity, id uint) (domain.Student, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.Student{}, err
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}

		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !scope.AllowsStudent(student.ID, student.SchoolID) {
		return domain.Student{}, ErrAccessDenied
	}

	return student, nil
}

// GetStudentByQRCode resolves the badge globally first and only then checks
// scope: cross-school badges answer with a denial, not a not-found.
func (s *StudentService) GetStudentByQRCode(ctx context.Context, identity domain.Identity, qrCode string) (domain.Student, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.Student{}, err
	}

	student, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}

		return domain.Student{}, fmt.Errorf("s.repo.FindByQRCode -> %w", err)
	}
	if !scope.AllowsStudent(student.ID, student.SchoolID) {
		return domain.Student{}, ErrAccessDenied
	}

	return student, nil
}

func (s *StudentService) ListStudents(ctx context.Context, identity domain.Identity) ([]domain.Student, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.FindAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return students, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, identity domain.Identity, student domain.Student) (domain.Student, error) {
	if !s.access.CanManageRoster(identity) {
		return domain.Student{}, ErrAccessDenied
	}
	if _, err := s.GetStudent(ctx, identity, student.ID); err != nil {
		return domain.Student{}, err
	}

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, identity domain.Identity, id uint) error {
	if !s.access.CanManageRoster(identity) {
		return ErrAccessDenied
	}
	if _, err := s.GetStudent(ctx, identity, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
