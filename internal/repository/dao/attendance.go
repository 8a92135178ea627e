package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateAttendance = errors.New("attendance already recorded")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
)

// AttendanceRecord rows are append-only with explicit delete; there is no
// update path. The composite unique index is the load-bearing guard against
// concurrent scans of the same badge for the same event: the insert itself
// is the duplicate check.
type AttendanceRecord struct {
	ID uint `gorm:"primaryKey"`

	StudentID   uint   `gorm:"uniqueIndex:idx_attendance_student_event;not null"`
	StudentName string `gorm:"not null"` // snapshot at scan time
	EventName   string `gorm:"uniqueIndex:idx_attendance_student_event;not null"`

	Timestamp time.Time `gorm:"not null"`
	ScannedBy uint      `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

func (d *AttendanceDAO) Insert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `"idx_attendance_student_event"`) {
			return AttendanceRecord{}, ErrDuplicateAttendance
		}

		return AttendanceRecord{}, result.Error
	}

	return record, nil
}

func (d *AttendanceDAO) FindByID(ctx context.Context, id uint) (AttendanceRecord, error) {
	var record AttendanceRecord

	result := d.db.WithContext(ctx).First(&record, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AttendanceRecord{}, ErrAttendanceNotFound
		}

		return AttendanceRecord{}, result.Error
	}

	return record, nil
}

// FindByEvent lists records for one event name. The school filter joins
// through students because records do not carry a school id; records whose
// student has since been deleted only appear in unrestricted listings.
func (d *AttendanceDAO) FindByEvent(ctx context.Context, eventName string, schoolID *uint, studentIDs []uint) ([]AttendanceRecord, error) {
	tx := d.db.WithContext(ctx).
		Where("attendance_records.event_name = ?", eventName).
		Order("attendance_records.timestamp")
	if schoolID != nil {
		tx = tx.Joins("JOIN students ON students.id = attendance_records.student_id").
			Where("students.school_id = ?", *schoolID)
	}
	if studentIDs != nil {
		tx = tx.Where("attendance_records.student_id IN ?", studentIDs)
	}

	var records []AttendanceRecord
	if result := tx.Find(&records); result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *AttendanceDAO) FindByStudent(ctx context.Context, studentID uint) ([]AttendanceRecord, error) {
	var records []AttendanceRecord

	result := d.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("timestamp").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// Delete is a hard delete; there is no soft-delete or undo.
func (d *AttendanceDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&AttendanceRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}
