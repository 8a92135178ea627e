package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

var (
	ErrDuplicateAttendance = repository.ErrDuplicateAttendance
	ErrAttendanceNotFound  = repository.ErrAttendanceNotFound
	ErrStudentNotFound     = repository.ErrStudentNotFound
)

type AttendanceLedger interface {
	Create(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	FindByID(ctx context.Context, id uint) (domain.AttendanceRecord, error)
	FindByEvent(ctx context.Context, eventName string, scope domain.Scope) ([]domain.AttendanceRecord, error)
	FindByStudent(ctx context.Context, studentID uint) ([]domain.AttendanceRecord, error)
	Delete(ctx context.Context, id uint) error
}

type AttendanceStudentRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Student, error)
}

type ActiveEventGate interface {
	ActiveEventForSchool(ctx context.Context, schoolID uint) (domain.Event, error)
}

type AttendanceService struct {
	ledger   AttendanceLedger
	students AttendanceStudentRepository
	gate     ActiveEventGate
	access   *AccessService
	now      func() time.Time
}

func NewAttendanceService(ledger AttendanceLedger, students AttendanceStudentRepository, gate ActiveEventGate, access *AccessService) *AttendanceService {
	return &AttendanceService{
		ledger:   ledger,
		students: students,
		gate:     gate,
		access:   access,
		now:      time.Now,
	}
}

// ResolveScan runs one scan to a terminal outcome:
// decode -> scope check -> active event -> insert -> outcome.
// Every expected failure comes back as an outcome with a reason; an error
// return means the persistence layer itself failed.
func (s *AttendanceService) ResolveScan(ctx context.Context, qrPayload string, identity domain.Identity) (domain.ScanOutcome, error) {
	now := s.now()

	if !s.access.CanRecordScans(identity) {
		return failedScan(domain.ScanAccessDenied, now), nil
	}

	// The payload is the lookup key itself; no parsing or transformation.
	student, err := s.students.FindByQRCode(ctx, qrPayload)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return failedScan(domain.ScanStudentNotFound, now), nil
		}

		return domain.ScanOutcome{}, fmt.Errorf("s.students.FindByQRCode -> %w", err)
	}

	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return failedScan(domain.ScanAccessDenied, now), nil
		}

		return domain.ScanOutcome{}, err
	}
	if !scope.AllowsSchool(student.SchoolID) {
		return failedScan(domain.ScanAccessDenied, now), nil
	}

	// The gate is scoped to the student's school, not the scanner's: for a
	// main_admin the two can differ.
	event, err := s.gate.ActiveEventForSchool(ctx, student.SchoolID)
	if err != nil {
		if errors.Is(err, ErrNoActiveEvent) {
			return failedScan(domain.ScanNoActiveEvent, now), nil
		}

		return domain.ScanOutcome{}, fmt.Errorf("s.gate.ActiveEventForSchool -> %w", err)
	}

	// Insert directly; the unique index is the duplicate check. A
	// pre-check here would reopen the check-then-act race.
	record, err := s.ledger.Create(ctx, domain.AttendanceRecord{
		StudentID:   student.ID,
		StudentName: student.Name,
		EventName:   event.Name,
		Timestamp:   now,
		ScannedBy:   identity.UserID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAttendance) {
			return failedScan(domain.ScanDuplicateAttendance, now), nil
		}

		return domain.ScanOutcome{}, fmt.Errorf("s.ledger.Create -> %w", err)
	}

	return domain.ScanOutcome{
		Success:     true,
		StudentName: record.StudentName,
		EventName:   record.EventName,
		Timestamp:   record.Timestamp,
	}, nil
}

func (s *AttendanceService) ListByEvent(ctx context.Context, identity domain.Identity, eventName string) ([]domain.AttendanceRecord, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.FindByEvent(ctx, eventName, scope)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindByEvent -> %w", err)
	}

	return records, nil
}

func (s *AttendanceService) ListByStudent(ctx context.Context, identity domain.Identity, studentID uint) ([]domain.AttendanceRecord, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, ErrStudentNotFound
		}

		return nil, fmt.Errorf("s.students.FindByID -> %w", err)
	}
	if !scope.AllowsStudent(student.ID, student.SchoolID) {
		return nil, ErrAccessDenied
	}

	records, err := s.ledger.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindByStudent -> %w", err)
	}

	return records, nil
}

// DeleteRecord hard-deletes one attendance record. main_admin may delete
// anywhere; school_admin only within the own school, which is verified
// through the record's student.
func (s *AttendanceService) DeleteRecord(ctx context.Context, identity domain.Identity, recordID uint) error {
	if !s.access.CanDeleteAttendance(identity) {
		return ErrAccessDenied
	}

	record, err := s.ledger.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return ErrAttendanceNotFound
		}

		return fmt.Errorf("s.ledger.FindByID -> %w", err)
	}

	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.All {
		student, err := s.students.FindByID(ctx, record.StudentID)
		if err != nil {
			if errors.Is(err, repository.ErrStudentNotFound) {
				// The student is gone, so school containment cannot be
				// proven; only main_admin may clean these up.
				return ErrAccessDenied
			}

			return fmt.Errorf("s.students.FindByID -> %w", err)
		}
		if !scope.AllowsSchool(student.SchoolID) {
			return ErrAccessDenied
		}
	}

	if err := s.ledger.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("s.ledger.Delete -> %w", err)
	}

	return nil
}

func failedScan(reason domain.ScanReason, at time.Time) domain.ScanOutcome {
	return domain.ScanOutcome{
		Success:   false,
		Reason:    reason,
		Timestamp: at,
	}
}
