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

type StudentService interface {
	CreateStudent(ctx context.Context, identity domain.Identity, student domain.Student) (domain.Student, error)
	GetStudent(ctx context.Context, identity domain.Identity, id uint) (domain.Student, error)
	GetStudentByQRCode(ctx context.Context, identity domain.Identity, qrCode string) (domain.Student, error)
	ListStudents(ctx context.Context, identity domain.Identity) ([]domain.Student, error)
	UpdateStudent(ctx context.Context, identity domain.Identity, student domain.Student) (domain.Student, error)
	DeleteStudent(ctx context.Context, identity domain.Identity, id uint) error
}

type StudentHandler struct {
	svc StudentService
}

func NewStudentHandler(svc StudentService) *StudentHandler {
	return &StudentHandler{
		svc: svc,
	}
}

// HandleCreateStudent godoc
// @Summary      Create a student
// @Description  The QR code is generated server-side and cannot be set or
// @Description  changed through the API.
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateStudentRequest true "request body"
// @Success      201      {object}  domain.Student
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /students [post]
// @Security BearerAuth
func (h *StudentHandler) HandleCreateStudent(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	var req request.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	student, err := h.svc.CreateStudent(ctx.Request.Context(), identity, domain.Student{
		Name:      req.Name,
		Group:     req.Group,
		Course:    req.Course,
		Specialty: req.Specialty,
		SchoolID:  req.SchoolID,
	})
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateStudent -> h.svc.CreateStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// HandleGetStudentByQRCode godoc
// @Summary      Look up a student by QR code
// @Tags         students
// @Produce      json
// @Param        qrCode  path      string true "QR code"
// @Success      200     {object}  domain.Student
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /qrcodes/{qrCode} [get]
// @Security BearerAuth
func (h *StudentHandler) HandleGetStudentByQRCode(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	qrCode := ctx.Param("qrCode")

	student, err := h.svc.GetStudentByQRCode(ctx.Request.Context(), identity, qrCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("student", "qrCode", qrCode))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleGetStudentByQRCode -> h.svc.GetStudentByQRCode -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleListStudents godoc
// @Summary      List students in the caller's scope
// @Tags         students
// @Produce      json
// @Success      200  {array}   domain.Student
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /students [get]
// @Security BearerAuth
func (h *StudentHandler) HandleListStudents(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	students, err := h.svc.ListStudents(ctx.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListStudents -> h.svc.ListStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// HandleGetStudent godoc
// @Summary      Get one student
// @Tags         students
// @Produce      json
// @Param        studentID  path      int true "student ID"
// @Success      200        {object}  domain.Student
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /students/{studentID} [get]
// @Security BearerAuth
func (h *StudentHandler) HandleGetStudent(ctx *gin.Context) {
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

	student, err := h.svc.GetStudent(ctx.Request.Context(), identity, uint(studentID))
	if err != nil {
		renderStudentErr(ctx, studentID, err, "v1.HandleGetStudent -> h.svc.GetStudent")
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleUpdateStudent godoc
// @Summary      Update a student
// @Description  A rename does not rewrite the student's past attendance
// @Description  records; they keep the name snapshotted at scan time.
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        studentID  path      int true "student ID"
// @Param        request    body      request.UpdateStudentRequest true "request body"
// @Success      200        {object}  domain.Student
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /students/{studentID} [put]
// @Security BearerAuth
func (h *StudentHandler) HandleUpdateStudent(ctx *gin.Context) {
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

	var req request.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	student, err := h.svc.UpdateStudent(ctx.Request.Context(), identity, domain.Student{
		ID:        uint(studentID),
		Name:      req.Name,
		Group:     req.Group,
		Course:    req.Course,
		Specialty: req.Specialty,
	})
	if err != nil {
		renderStudentErr(ctx, studentID, err, "v1.HandleUpdateStudent -> h.svc.UpdateStudent")
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleDeleteStudent godoc
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        studentID  path  int true "student ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /students/{studentID} [delete]
// @Security BearerAuth
func (h *StudentHandler) HandleDeleteStudent(ctx *gin.Context) {
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

	if err := h.svc.DeleteStudent(ctx.Request.Context(), identity, uint(studentID)); err != nil {
		renderStudentErr(ctx, studentID, err, "v1.HandleDeleteStudent -> h.svc.DeleteStudent")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func renderStudentErr(ctx *gin.Context, studentID uint64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.RenderErr(ctx, response.ErrNotFound("student", "ID", studentID))
	case errors.Is(err, service.ErrAccessDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
