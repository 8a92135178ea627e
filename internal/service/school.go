package service

import (
	"context"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

var (
	ErrSchoolNameExists = repository.ErrSchoolNameExists
	ErrSchoolNotFound   = repository.ErrSchoolNotFound
)

type SchoolRepository interface {
	Create(ctx context.Context, school domain.School) (domain.School, error)
	FindByID(ctx context.Context, id uint) (domain.School, error)
	FindAll(ctx context.Context) ([]domain.School, error)
	Update(ctx context.Context, school domain.School) (domain.School, error)
	Delete(ctx context.Context, id uint) error
}

type SchoolService struct {
	repo   SchoolRepository
	access *AccessService
}

func NewSchoolService(repo SchoolRepository, access *AccessService) *SchoolService {
	return &SchoolService{
		repo:   repo,
		access: access,
	}
}

func (s *SchoolService) CreateSchool(ctx context.Context, identity domain.Identity, school domain.School) (domain.School, error) {
	if !s.access.CanManageSchools(identity) {
		return domain.School{}, ErrAccessDenied
	}

	created, err := s.repo.Create(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SchoolService) GetSchool(ctx context.Context, identity domain.Identity, id uint) (domain.School, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.School{}, err
	}
	if !scope.AllowsSchool(id) {
		return domain.School{}, ErrAccessDenied
	}

	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return school, nil
}

func (s *SchoolService) ListSchools(ctx context.Context, identity domain.Identity) ([]domain.School, error) {
	if !s.access.CanManageSchools(identity) {
		return nil, ErrAccessDenied
	}

	schools, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return schools, nil
}

func (s *SchoolService) UpdateSchool(ctx context.Context, identity domain.Identity, school domain.School) (domain.School, error) {
	if !s.access.CanManageSchools(identity) {
		return domain.School{}, ErrAccessDenied
	}

	updated, err := s.repo.Update(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteSchool removes the school row only; its students and events stay
// behind until removed explicitly.
func (s *SchoolService) DeleteSchool(ctx context.Context, identity domain.Identity, id uint) error {
	if !s.access.CanManageSchools(identity) {
		return ErrAccessDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
