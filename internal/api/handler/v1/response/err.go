package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the uniform error envelope. Code is machine-readable so UI
// collaborators can branch on it instead of parsing messages.
type Err struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("%v - %v", e.Code, e.Message)
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.String("code", err.Code),
			zap.String("error", err.Message),
		)

		// Never leak internals to the client.
		ctx.AbortWithStatusJSON(err.StatusCode, &Err{
			Code:    err.Code,
			Message: "something went wrong",
		})
		return
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Code:       "bad_request",
		Message:    err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Code:       "invalid_credentials",
		Message:    err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthorized",
		Message:    err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Code:       "access_denied",
		Message:    err.Error(),
	}
}

func ErrNotFound(what, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    fmt.Sprintf("%v not found (%v = %v)", what, key, value),
	}
}

// ErrConflict covers constraint violations on direct writes, e.g. a
// duplicate attendance backfill or a reused event name. The code lets
// clients tell "already checked in" apart from other conflicts.
func ErrConflict(code string, err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Code:       code,
		Message:    err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    err.Error(),
	}
}
