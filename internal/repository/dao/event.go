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
	ErrEventNameExists = errors.New("event already exists")
	ErrEventNotFound   = errors.New("event not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string    `gorm:"unique;not null"`
	Date        time.Time `gorm:"not null"`
	Description string

	IsActive  bool `gorm:"index;not null;default:false"`
	SchoolID  uint `gorm:"index;not null"`
	TeacherID *uint

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_events_name"`) {
			return Event{}, ErrEventNameExists
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, schoolID *uint) ([]Event, error) {
	tx := d.db.WithContext(ctx).Order("date DESC")
	if schoolID != nil {
		tx = tx.Where("school_id = ?", *schoolID)
	}

	var events []Event
	if result := tx.Find(&events); result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindActive returns every active event in scope, most recently dated
// first. Nothing prevents several events from being active at once; callers
// pick a policy.
func (d *EventDAO) FindActive(ctx context.Context, schoolID *uint) ([]Event, error) {
	tx := d.db.WithContext(ctx).Where("is_active = ?", true).Order("date DESC")
	if schoolID != nil {
		tx = tx.Where("school_id = ?", *schoolID)
	}

	var events []Event
	if result := tx.Find(&events); result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{ID: event.ID}).Updates(map[string]interface{}{
		"name":        event.Name,
		"date":        event.Date,
		"description": event.Description,
		"teacher_id":  event.TeacherID,
	})
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_events_name"`) {
			return Event{}, ErrEventNameExists
		}

		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

// SetActive toggles one event only; sibling events are never deactivated
// here. The call is idempotent.
func (d *EventDAO) SetActive(ctx context.Context, id uint, active bool) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{ID: id}).Update("is_active", active)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
