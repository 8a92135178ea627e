package repository

import (
	"context"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository/dao"
)

var (
	ErrEventNameExists = dao.ErrEventNameExists
	ErrEventNotFound   = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context, schoolID *uint) ([]dao.Event, error)
	FindActive(ctx context.Context, schoolID *uint) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	SetActive(ctx context.Context, id uint, active bool) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Name:        event.Name,
		Date:        event.Date,
		Description: event.Description,
		IsActive:    event.IsActive,
		SchoolID:    event.SchoolID,
		TeacherID:   event.TeacherID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context, schoolID *uint) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

// FindActive returns active events most recently dated first; the slice may
// hold any number of events.
func (r *EventRepository) FindActive(ctx context.Context, schoolID *uint) ([]domain.Event, error) {
	found, err := r.dao.FindActive(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, dao.Event{
		ID:          event.ID,
		Name:        event.Name,
		Date:        event.Date,
		Description: event.Description,
		TeacherID:   event.TeacherID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) SetActive(ctx context.Context, id uint, active bool) (domain.Event, error) {
	updated, err := r.dao.SetActive(ctx, id, active)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		Description: e.Description,
		IsActive:    e.IsActive,
		SchoolID:    e.SchoolID,
		TeacherID:   e.TeacherID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomainSlice(found []dao.Event) []domain.Event {
	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events
}
