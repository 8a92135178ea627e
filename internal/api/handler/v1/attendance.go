package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolqr/attendance-api/internal/api/handler/v1/request"
	"github.com/schoolqr/attendance-api/internal/api/handler/v1/response"
	"github.com/schoolqr/attendance-api/internal/api/middleware"
	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/service"
)

type AttendanceService interface {
	ResolveScan(ctx context.Context, qrPayload string, identity domain.Identity) (domain.ScanOutcome, error)
	ListByEvent(ctx context.Context, identity domain.Identity, eventName string) ([]domain.AttendanceRecord, error)
	ListByStudent(ctx context.Context, identity domain.Identity, studentID uint) ([]domain.AttendanceRecord, error)
	DeleteRecord(ctx context.Context, identity domain.Identity, recordID uint) error
}

type AttendanceHandler struct {
	svc AttendanceService
}

func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleScan godoc
// @Summary      Resolve a QR scan into an attendance record
// @Description  Runs the scan pipeline; expected failures (unknown student,
// @Description  out of scope, no active event, already checked in) come back
// @Description  as a 200 outcome with a reason, never as a bare error.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request  body      request.ScanRequest true "request body"
// @Success      200      {object}  domain.ScanOutcome
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /attendance/scan [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleScan(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	outcome, err := h.svc.ResolveScan(ctx.Request.Context(), req.QRPayload, identity)
	if err != nil {
		err = fmt.Errorf("v1.HandleScan -> h.svc.ResolveScan -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

// HandleListByEvent godoc
// @Summary      List attendance records of one event
// @Tags         attendance
// @Produce      json
// @Param        event  query     string true "event name"
// @Success      200    {array}   domain.AttendanceRecord
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListByEvent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	eventName := ctx.Query("event")
	if eventName == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("query parameter 'event' is required")))
		return
	}

	records, err := h.svc.ListByEvent(ctx.Request.Context(), identity, eventName)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListByEvent -> h.svc.ListByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleListByStudent godoc
// @Summary      List attendance records of one student
// @Tags         attendance
// @Produce      json
// @Param        studentID  path      int true "student ID"
// @Success      200        {array}   domain.AttendanceRecord
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /attendance/students/{studentID} [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListByStudent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	studentID, err := strconv.ParseUint(ctx.Param("studentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("student ID must be an integer")))
		return
	}

	records, err := h.svc.ListByStudent(ctx.Request.Context(), identity, uint(studentID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("student", "ID", studentID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleListByStudent -> h.svc.ListByStudent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleDeleteRecord godoc
// @Summary      Hard-delete an attendance record
// @Tags         attendance
// @Produce      json
// @Param        recordID  path  int true "record ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /attendance/records/{recordID} [delete]
// @Security BearerAuth
func (h *AttendanceHandler) HandleDeleteRecord(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	recordID, err := strconv.ParseUint(ctx.Param("recordID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("record ID must be an integer")))
		return
	}

	if err := h.svc.DeleteRecord(ctx.Request.Context(), identity, uint(recordID)); err != nil {
		switch {
		case errors.Is(err, service.ErrAttendanceNotFound):
			response.RenderErr(ctx, response.ErrNotFound("attendance record", "ID", recordID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteRecord -> h.svc.DeleteRecord -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
