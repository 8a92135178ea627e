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
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentQRCodeExists = errors.New("qr code already assigned")
)

type Student struct {
	ID uint `gorm:"primaryKey"`

	Name      string `gorm:"not null"`
	Group     string `gorm:"column:student_group"`
	Course    int    `gorm:"not null"` // year of study, 1 to 4
	Specialty string

	// QRCode is the global scan lookup key. A scan carries no school
	// context, so uniqueness must hold across all schools.
	QRCode   string `gorm:"uniqueIndex:idx_students_qr_code;not null"`
	SchoolID uint   `gorm:"index;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StudentDAO struct {
	db *gorm.DB
}

func NewStudentDAO(db *gorm.DB) *StudentDAO {
	return &StudentDAO{
		db: db,
	}
}

func (d *StudentDAO) Insert(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Create(&student)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `"idx_students_qr_code"`) {
			return Student{}, ErrStudentQRCodeExists
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByID(ctx context.Context, id uint) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByQRCode(ctx context.Context, qrCode string) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, "qr_code = ?", qrCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

// FindAll lists students, optionally narrowed to one school or to an
// explicit id set. A non-nil empty studentIDs matches nothing.
func (d *StudentDAO) FindAll(ctx context.Context, schoolID *uint, studentIDs []uint) ([]Student, error) {
	tx := d.db.WithContext(ctx).Order("id")
	if schoolID != nil {
		tx = tx.Where("school_id = ?", *schoolID)
	}
	if studentIDs != nil {
		tx = tx.Where("id IN ?", studentIDs)
	}

	var students []Student
	if result := tx.Find(&students); result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

// Update never touches the qr_code column; the code is immutable after
// creation.
func (d *StudentDAO) Update(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Model(&Student{ID: student.ID}).Updates(map[string]interface{}{
		"name":          student.Name,
		"student_group": student.Group,
		"course":        student.Course,
		"specialty":     student.Specialty,
	})
	if result.Error != nil {
		return Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Student{}, ErrStudentNotFound
	}

	return d.FindByID(ctx, student.ID)
}

func (d *StudentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}

	return nil
}
