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
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Role     string `gorm:"not null"` // "main_admin", "school_admin", "teacher", "parent" or "student"
	SchoolID *uint  `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ParentChild is the explicit parent-to-student link table.
type ParentChild struct {
	ParentID  uint `gorm:"primaryKey;autoIncrement:false"`
	StudentID uint `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"not null"`
}

func (ParentChild) TableName() string {
	return "parent_children"
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_email"`) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// LinkChild is idempotent: re-linking an existing pair is not an error.
func (d *UserDAO) LinkChild(ctx context.Context, parentID, studentID uint) error {
	link := ParentChild{
		ParentID:  parentID,
		StudentID: studentID,
	}

	result := d.db.WithContext(ctx).Create(&link)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return nil
		}

		return result.Error
	}

	return nil
}

func (d *UserDAO) FindChildIDs(ctx context.Context, parentID uint) ([]uint, error) {
	var studentIDs []uint

	result := d.db.WithContext(ctx).
		Model(&ParentChild{}).
		Where("parent_id = ?", parentID).
		Pluck("student_id", &studentIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return studentIDs, nil
}
