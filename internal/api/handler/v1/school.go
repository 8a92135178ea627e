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

type SchoolService interface {
	CreateSchool(ctx context.Context, identity domain.Identity, school domain.School) (domain.School, error)
	GetSchool(ctx context.Context, identity domain.Identity, id uint) (domain.School, error)
	ListSchools(ctx context.Context, identity domain.Identity) ([]domain.School, error)
	UpdateSchool(ctx context.Context, identity domain.Identity, school domain.School) (domain.School, error)
	DeleteSchool(ctx context.Context, identity domain.Identity, id uint) error
}

type SchoolHandler struct {
	svc SchoolService
}

func NewSchoolHandler(svc SchoolService) *SchoolHandler {
	return &SchoolHandler{
		svc: svc,
	}
}

// HandleCreateSchool godoc
// @Summary      Create a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateSchoolRequest true "request body"
// @Success      201      {object}  domain.School
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /schools [post]
// @Security BearerAuth
func (h *SchoolHandler) HandleCreateSchool(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	var req request.CreateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	school, err := h.svc.CreateSchool(ctx.Request.Context(), identity, domain.School{
		Name: req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolNameExists):
			response.RenderErr(ctx, response.ErrConflict("school_name_exists", err))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleCreateSchool -> h.svc.CreateSchool -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, school)
}

// HandleListSchools godoc
// @Summary      List schools
// @Tags         schools
// @Produce      json
// @Success      200  {array}   domain.School
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /schools [get]
// @Security BearerAuth
func (h *SchoolHandler) HandleListSchools(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	schools, err := h.svc.ListSchools(ctx.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListSchools -> h.svc.ListSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, schools)
}

// HandleGetSchool godoc
// @Summary      Get one school
// @Tags         schools
// @Produce      json
// @Param        schoolID  path      int true "school ID"
// @Success      200       {object}  domain.School
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /schools/{schoolID} [get]
// @Security BearerAuth
func (h *SchoolHandler) HandleGetSchool(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	schoolID, err := strconv.ParseUint(ctx.Param("schoolID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("school ID must be an integer")))
		return
	}

	school, err := h.svc.GetSchool(ctx.Request.Context(), identity, uint(schoolID))
	if err != nil {
		renderSchoolErr(ctx, schoolID, err, "v1.HandleGetSchool -> h.svc.GetSchool")
		return
	}

	ctx.JSON(http.StatusOK, school)
}

// HandleUpdateSchool godoc
// @Summary      Rename a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        schoolID  path      int true "school ID"
// @Param        request   body      request.UpdateSchoolRequest true "request body"
// @Success      200       {object}  domain.School
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /schools/{schoolID} [put]
// @Security BearerAuth
func (h *SchoolHandler) HandleUpdateSchool(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	schoolID, err := strconv.ParseUint(ctx.Param("schoolID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("school ID must be an integer")))
		return
	}

	var req request.UpdateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	school, err := h.svc.UpdateSchool(ctx.Request.Context(), identity, domain.School{
		ID:   uint(schoolID),
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrSchoolNameExists) {
			response.RenderErr(ctx, response.ErrConflict("school_name_exists", err))
			return
		}

		renderSchoolErr(ctx, schoolID, err, "v1.HandleUpdateSchool -> h.svc.UpdateSchool")
		return
	}

	ctx.JSON(http.StatusOK, school)
}

// HandleDeleteSchool godoc
// @Summary      Delete a school
// @Description  Students and events of the school are not cascaded; cleanup
// @Description  is a separate, explicit operation.
// @Tags         schools
// @Produce      json
// @Param        schoolID  path  int true "school ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /schools/{schoolID} [delete]
// @Security BearerAuth
func (h *SchoolHandler) HandleDeleteSchool(ctx *gin.Context) {
	identity, err := middleware.IdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return
	}

	schoolID, err := strconv.ParseUint(ctx.Param("schoolID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("school ID must be an integer")))
		return
	}

	if err := h.svc.DeleteSchool(ctx.Request.Context(), identity, uint(schoolID)); err != nil {
		renderSchoolErr(ctx, schoolID, err, "v1.HandleDeleteSchool -> h.svc.DeleteSchool")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func renderSchoolErr(ctx *gin.Context, schoolID uint64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		response.RenderErr(ctx, response.ErrNotFound("school", "ID", schoolID))
	case errors.Is(err, service.ErrAccessDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
