package repository

import (
	"context"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository/dao"
)

var (
	ErrStudentNotFound     = dao.ErrStudentNotFound
	ErrStudentQRCodeExists = dao.ErrStudentQRCodeExists
)

type StudentDAO interface {
	Insert(ctx context.Context, student dao.Student) (dao.Student, error)
	FindByID(ctx context.Context, id uint) (dao.Student, error)
	FindByQRCode(ctx context.Context, qrCode string) (dao.Student, error)
	FindAll(ctx context.Context, schoolID *uint, studentIDs []uint) ([]dao.Student, error)
	Update(ctx context.Context, student dao.Student) (dao.Student, error)
	Delete(ctx context.Context, id uint) error
}

type StudentRepository struct {
	dao StudentDAO
}

func NewStudentRepository(dao StudentDAO) *StudentRepository {
	return &StudentRepository{
		dao: dao,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	created, err := r.dao.Insert(ctx, dao.Student{
		Name:      student.Name,
		Group:     student.Group,
		Course:    student.Course,
		Specialty: student.Specialty,
		QRCode:    student.QRCode,
		SchoolID:  student.SchoolID,
	})
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (domain.Student, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// FindByQRCode looks the student up globally; scope is checked by the
// caller after resolution, never by narrowing this query.
func (r *StudentRepository) FindByQRCode(ctx context.Context, qrCode string) (domain.Student, error) {
	found, err := r.dao.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StudentRepository) FindAll(ctx context.Context, scope domain.Scope) ([]domain.Student, error) {
	found, err := r.dao.FindAll(ctx, scope.SchoolID, scope.StudentIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	students := make([]domain.Student, 0, len(found))
	for _, s := range found {
		students = append(students, r.daoToDomain(s))
	}

	return students, nil
}

func (r *StudentRepository) Update(ctx context.Context, student domain.Student) (domain.Student, error) {
	updated, err := r.dao.Update(ctx, dao.Student{
		ID:        student.ID,
		Name:      student.Name,
		Group:     student.Group,
		Course:    student.Course,
		Specialty: student.Specialty,
	})
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StudentRepository) daoToDomain(s dao.Student) domain.Student {
	return domain.Student{
		ID:        s.ID,
		Name:      s.Name,
		Group:     s.Group,
		Course:    s.Course,
		Specialty: s.Specialty,
		QRCode:    s.QRCode,
		SchoolID:  s.SchoolID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
