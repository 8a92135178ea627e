package repository

import (
	"context"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository/dao"
)

var (
	ErrDuplicateAttendance = dao.ErrDuplicateAttendance
	ErrAttendanceNotFound  = dao.ErrAttendanceNotFound
)

type AttendanceDAO interface {
	Insert(ctx context.Context, record dao.AttendanceRecord) (dao.AttendanceRecord, error)
	FindByID(ctx context.Context, id uint) (dao.AttendanceRecord, error)
	FindByEvent(ctx context.Context, eventName string, schoolID *uint, studentIDs []uint) ([]dao.AttendanceRecord, error)
	FindByStudent(ctx context.Context, studentID uint) ([]dao.AttendanceRecord, error)
	Delete(ctx context.Context, id uint) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

// Create appends one record. There is deliberately no existence pre-check:
// the unique index decides, so two concurrent scans cannot both win.
func (r *AttendanceRepository) Create(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	created, err := r.dao.Insert(ctx, dao.AttendanceRecord{
		StudentID:   record.StudentID,
		StudentName: record.StudentName,
		EventName:   record.EventName,
		Timestamp:   record.Timestamp,
		ScannedBy:   record.ScannedBy,
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id uint) (domain.AttendanceRecord, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendanceRepository) FindByEvent(ctx context.Context, eventName string, scope domain.Scope) ([]domain.AttendanceRecord, error) {
	found, err := r.dao.FindByEvent(ctx, eventName, scope.SchoolID, scope.StudentIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	records := make([]domain.AttendanceRecord, 0, len(found))
	for _, rec := range found {
		records = append(records, r.daoToDomain(rec))
	}

	return records, nil
}

func (r *AttendanceRepository) FindByStudent(ctx context.Context, studentID uint) ([]domain.AttendanceRecord, error) {
	found, err := r.dao.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStudent -> %w", err)
	}

	records := make([]domain.AttendanceRecord, 0, len(found))
	for _, rec := range found {
		records = append(records, r.daoToDomain(rec))
	}

	return records, nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *AttendanceRepository) daoToDomain(rec dao.AttendanceRecord) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:          rec.ID,
		StudentID:   rec.StudentID,
		StudentName: rec.StudentName,
		EventName:   rec.EventName,
		Timestamp:   rec.Timestamp,
		ScannedBy:   rec.ScannedBy,
		CreatedAt:   rec.CreatedAt,
	}
}
