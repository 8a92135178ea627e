package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

var (
	ErrEventNameExists = repository.ErrEventNameExists
	ErrEventNotFound   = repository.ErrEventNotFound
	// ErrNoActiveEvent is a normal state, not a fault: no event is
	// currently accepting scans in the requested scope.
	ErrNoActiveEvent = errors.New("no active event")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context, schoolID *uint) ([]domain.Event, error)
	FindActive(ctx context.Context, schoolID *uint) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	SetActive(ctx context.Context, id uint, active bool) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventService struct {
	repo   EventRepository
	access *AccessService
}

func NewEventService(repo EventRepository, access *AccessService) *EventService {
	return &EventService{
		repo:   repo,
		access: access,
	}
}

// CurrentActiveEvent picks the scan target for a scope. Several events may
// be active at once; the most recently dated one wins. That is a tie-break,
// not a single-active guarantee.
func (s *EventService) CurrentActiveEvent(ctx context.Context, scope domain.Scope) (domain.Event, error) {
	if !scope.All && scope.SchoolID == nil {
		return domain.Event{}, ErrNoActiveEvent
	}

	active, err := s.repo.FindActive(ctx, scope.SchoolID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}
	if len(active) == 0 {
		return domain.Event{}, ErrNoActiveEvent
	}

	return active[0], nil
}

// ActiveEventForSchool is the gate used by the scan pipeline: the target
// event is always looked up in the student's school, whatever the scanner's
// own scope is.
func (s *EventService) ActiveEventForSchool(ctx context.Context, schoolID uint) (domain.Event, error) {
	active, err := s.repo.FindActive(ctx, &schoolID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}
	if len(active) == 0 {
		return domain.Event{}, ErrNoActiveEvent
	}

	return active[0], nil
}

func (s *EventService) CreateEvent(ctx context.Context, identity domain.Identity, event domain.Event) (domain.Event, error) {
	if !s.access.CanManageRoster(identity) {
		return domain.Event{}, ErrAccessDenied
	}

	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.Event{}, err
	}
	if !scope.AllowsSchool(event.SchoolID) {
		return domain.Event{}, ErrAccessDenied
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, identity domain.Identity, id uint) (domain.Event, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return domain.Event{}, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	// Enforced on the by-id path too, so a guessed id reveals nothing.
	if !scope.AllowsSchool(event.SchoolID) {
		return domain.Event{}, ErrAccessDenied
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, identity domain.Identity) ([]domain.Event, error) {
	scope, err := s.access.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if scope.StudentIDs != nil {
		// Parent scope: events surface only through their children's
		// attendance, not through the event list.
		return []domain.Event{}, nil
	}

	events, err := s.repo.FindAll(ctx, scope.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, identity domain.Identity, event domain.Event) (domain.Event, error) {
	if _, err := s.writableEvent(ctx, identity, event.ID); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// SetEventActive toggles the scanning flag of one event. Activating an
// event never deactivates its siblings.
func (s *EventService) SetEventActive(ctx context.Context, identity domain.Identity, id uint, active bool) (domain.Event, error) {
	if _, err := s.writableEvent(ctx, identity, id); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, identity domain.Identity, id uint) error {
	if !s.access.CanManageRoster(identity) {
		return ErrAccessDenied
	}
	if _, err := s.GetEvent(ctx, identity, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// writableEvent loads an event and checks the identity may mutate it:
// admins within scope, teachers only when assigned to the event.
func (s *EventService) writableEvent(ctx context.Context, identity domain.Identity, id uint) (domain.Event, error) {
	event, err := s.GetEvent(ctx, identity, id)
	if err != nil {
		return domain.Event{}, err
	}

	if s.access.CanManageRoster(identity) {
		return event, nil
	}
	if identity.Role == domain.RoleTeacher &&
		event.TeacherID != nil && *event.TeacherID == identity.UserID {
		return event, nil
	}

	return domain.Event{}, ErrAccessDenied
}
