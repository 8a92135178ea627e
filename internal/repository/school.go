package repository

import (
	"context"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository/dao"
)

var (
	ErrSchoolNameExists = dao.ErrSchoolNameExists
	ErrSchoolNotFound   = dao.ErrSchoolNotFound
)

type SchoolDAO interface {
	Insert(ctx context.Context, school dao.School) (dao.School, error)
	FindByID(ctx context.Context, id uint) (dao.School, error)
	FindAll(ctx context.Context) ([]dao.School, error)
	Update(ctx context.Context, school dao.School) (dao.School, error)
	Delete(ctx context.Context, id uint) error
}

type SchoolRepository struct {
	dao SchoolDAO
}

func NewSchoolRepository(dao SchoolDAO) *SchoolRepository {
	return &SchoolRepository{
		dao: dao,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := r.dao.Insert(ctx, dao.School{
		Name: school.Name,
	})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id uint) (domain.School, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SchoolRepository) FindAll(ctx context.Context) ([]domain.School, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	schools := make([]domain.School, 0, len(found))
	for _, s := range found {
		schools = append(schools, r.daoToDomain(s))
	}

	return schools, nil
}

func (r *SchoolRepository) Update(ctx context.Context, school domain.School) (domain.School, error) {
	updated, err := r.dao.Update(ctx, dao.School{
		ID:   school.ID,
		Name: school.Name,
	})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SchoolRepository) daoToDomain(s dao.School) domain.School {
	return domain.School{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
