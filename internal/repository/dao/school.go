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
	ErrSchoolNameExists = errors.New("school already exists")
	ErrSchoolNotFound   = errors.New("school not found")
)

type School struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"unique;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SchoolDAO struct {
	db *gorm.DB
}

func NewSchoolDAO(db *gorm.DB) *SchoolDAO {
	return &SchoolDAO{
		db: db,
	}
}

func (d *SchoolDAO) Insert(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Create(&school)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_schools_name"`) {
			return School{}, ErrSchoolNameExists
		}

		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindByID(ctx context.Context, id uint) (School, error) {
	var school School

	result := d.db.WithContext(ctx).First(&school, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return School{}, ErrSchoolNotFound
		}

		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindAll(ctx context.Context) ([]School, error) {
	var schools []School

	result := d.db.WithContext(ctx).Order("id").Find(&schools)
	if result.Error != nil {
		return nil, result.Error
	}

	return schools, nil
}

func (d *SchoolDAO) Update(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Model(&School{ID: school.ID}).Updates(map[string]interface{}{
		"name": school.Name,
	})
	if result.Error != nil {
		return School{}, result.Error
	}
	if result.RowsAffected == 0 {
		return School{}, ErrSchoolNotFound
	}

	return d.FindByID(ctx, school.ID)
}

// Delete does not cascade: students and events of the school are kept and
// must be cleaned up explicitly if desired.
func (d *SchoolDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&School{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}

	return nil
}
