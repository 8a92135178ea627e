package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolqr/attendance-api/internal/api/handler/v1/request"
	"github.com/schoolqr/attendance-api/internal/api/handler/v1/response"
	"github.com/schoolqr/attendance-api/internal/api/middleware"
	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/service"
)

const eventDateLayout = "02/01/2006"

type EventService interface {
	CurrentActiveEvent(ctx context.Context, scope domain.Scope) (domain.Event, error)
	CreateEvent(ctx context.Context, identity domain.Identity, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, identity domain.Identity, id uint) (domain.Event, error)
	ListEvents(ctx context.Context, identity domain.Identity) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, identity domain.Identity, event domain.Event) (domain.Event, error)
	SetEventActive(ctx context.Context, identity domain.Identity, id uint, active bool) (domain.Event, error)
	DeleteEvent(ctx context.Context, identity domain.Identity, id uint) error
}

type AccessResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (domain.Scope, error)
}

type EventHandler struct {
	svc    EventService
	access AccessResolver
}

func NewEventHandler(svc EventService, access AccessResolver) *EventHandler {
	return &EventHandler{
		svc:    svc,
		access: access,
	}
}

// HandleGetActiveEvent godoc
// @Summary      Get the event currently accepting scans in the caller's scope
// @Description  Having no active event is a normal state; it renders as an
// @Description  empty body with 204, not as an error.
// @Tags         events
// @Produce      json
// @Success      200  {object}  domain.Event
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /active-event [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetActiveEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	scope, err := h.access.Resolve(ctx.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetActiveEvent -> h.access.Resolve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	event, err := h.svc.CurrentActiveEvent(ctx.Request.Context(), scope)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveEvent) {
			ctx.Status(http.StatusNoContent)
			return
		}

		err = fmt.Errorf("v1.HandleGetActiveEvent -> h.svc.CurrentActiveEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	parsedDate, err := time.Parse(eventDateLayout, req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %v", err)))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), identity, domain.Event{
		Name:        req.Name,
		Date:        parsedDate,
		Description: req.Description,
		SchoolID:    req.SchoolID,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNameExists):
			response.RenderErr(ctx, response.ErrConflict("event_name_exists", err))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List events in the caller's scope
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event ID must be an integer")))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), identity, uint(eventID))
	if err != nil {
		renderEventErr(ctx, eventID, err, "v1.HandleGetEvent -> h.svc.GetEvent")
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Renaming an event does not relink past attendance records;
// @Description  they keep the name under which they were written.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int true "event ID"
// @Param        request  body      request.UpdateEventRequest true "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event ID must be an integer")))
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	parsedDate, err := time.Parse(eventDateLayout, req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %v", err)))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), identity, domain.Event{
		ID:          uint(eventID),
		Name:        req.Name,
		Date:        parsedDate,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNameExists) {
			response.RenderErr(ctx, response.ErrConflict("event_name_exists", err))
			return
		}

		renderEventErr(ctx, eventID, err, "v1.HandleUpdateEvent -> h.svc.UpdateEvent")
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleSetEventActive godoc
// @Summary      Activate or deactivate an event for scanning
// @Description  Idempotent; activating one event never deactivates others.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int true "event ID"
// @Param        request  body      request.SetEventActiveRequest true "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/active [put]
// @Security BearerAuth
func (h *EventHandler) HandleSetEventActive(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event ID must be an integer")))
		return
	}

	var req request.SetEventActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.SetEventActive(ctx.Request.Context(), identity, uint(eventID), *req.Active)
	if err != nil {
		renderEventErr(ctx, eventID, err, "v1.HandleSetEventActive -> h.svc.SetEventActive")
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Attendance records written under the event's name survive
// @Description  the deletion.
// @Tags         events
// @Produce      json
// @Param        eventID  path  int true "event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event ID must be an integer")))
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), identity, uint(eventID)); err != nil {
		renderEventErr(ctx, eventID, err, "v1.HandleDeleteEvent -> h.svc.DeleteEvent")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func renderEventErr(ctx *gin.Context, eventID uint64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case errors.Is(err, service.ErrAccessDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
