package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolqr/attendance-api/internal/api/middleware"
	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/pkg/jwthelper"
	"github.com/schoolqr/attendance-api/internal/service"
)

const testSigningKey = "test-signing-key"

type stubAttendanceService struct {
	outcome domain.ScanOutcome
	scanErr error

	records   []domain.AttendanceRecord
	listErr   error
	deleteErr error
}

func (s *stubAttendanceService) ResolveScan(_ context.Context, _ string, _ domain.Identity) (domain.ScanOutcome, error) {
	return s.outcome, s.scanErr
}

func (s *stubAttendanceService) ListByEvent(_ context.Context, _ domain.Identity, _ string) ([]domain.AttendanceRecord, error) {
	return s.records, s.listErr
}

func (s *stubAttendanceService) ListByStudent(_ context.Context, _ domain.Identity, _ uint) ([]domain.AttendanceRecord, error) {
	return s.records, s.listErr
}

func (s *stubAttendanceService) DeleteRecord(_ context.Context, _ domain.Identity, _ uint) error {
	return s.deleteErr
}

func newAttendanceRouter(svc AttendanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewAttendanceHandler(svc)

	router := gin.New()
	grp := router.Group("/api/v1", middleware.NewAuthenticator(testSigningKey).VerifyJWT())
	grp.POST("/attendance/scan", handler.HandleScan)
	grp.GET("/attendance", handler.HandleListByEvent)
	grp.DELETE("/attendance/records/:recordID", handler.HandleDeleteRecord)

	return router
}

func bearerToken(t *testing.T, role domain.Role, schoolID *uint) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(testSigningKey), 3, role, schoolID)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestHandleScan(t *testing.T) {
	schoolID := uint(1)

	t.Run("missing token is rejected", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/scan", strings.NewReader(`{"qr_payload":"qr-alice"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("successful scan renders the outcome", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{
			outcome: domain.ScanOutcome{
				Success:     true,
				StudentName: "Alice Martin",
				EventName:   "Open Day",
				Timestamp:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/scan", strings.NewReader(`{"qr_payload":"qr-alice"}`))
		req.Header.Set("Authorization", bearerToken(t, domain.RoleTeacher, &schoolID))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var outcome domain.ScanOutcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.True(t, outcome.Success)
		assert.Equal(t, "Alice Martin", outcome.StudentName)
		assert.Equal(t, "Open Day", outcome.EventName)
	})

	t.Run("failed scan is still a 200 with a reason", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{
			outcome: domain.ScanOutcome{
				Success: false,
				Reason:  domain.ScanDuplicateAttendance,
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/scan", strings.NewReader(`{"qr_payload":"qr-alice"}`))
		req.Header.Set("Authorization", bearerToken(t, domain.RoleTeacher, &schoolID))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var outcome domain.ScanOutcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.False(t, outcome.Success)
		assert.Equal(t, domain.ScanDuplicateAttendance, outcome.Reason)
	})

	t.Run("empty payload fails validation", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/scan", strings.NewReader(`{"qr_payload":""}`))
		req.Header.Set("Authorization", bearerToken(t, domain.RoleTeacher, &schoolID))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleListByEvent(t *testing.T) {
	schoolID := uint(1)

	t.Run("event query parameter is required", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil)
		req.Header.Set("Authorization", bearerToken(t, domain.RoleTeacher, &schoolID))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("records come back as a JSON array", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{
			records: []domain.AttendanceRecord{
				{ID: 1, StudentID: 101, StudentName: "Alice Martin", EventName: "Open Day"},
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance?event=Open+Day", nil)
		req.Header.Set("Authorization", bearerToken(t, domain.RoleTeacher, &schoolID))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var records []domain.AttendanceRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Alice Martin", records[0].StudentName)
	})
}

func TestHandleDeleteRecord(t *testing.T) {
	schoolID := uint(1)

	t.Run("delete renders 204", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/records/1", nil)
		req.Header.Set("Authorization", bearerToken(t, domain.RoleSchoolAdmin, &schoolID))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("permission errors render 403", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{deleteErr: service.ErrAccessDenied})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/records/1", nil)
		req.Header.Set("Authorization", bearerToken(t, domain.RoleSchoolAdmin, &schoolID))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-numeric id renders 400", func(t *testing.T) {
		router := newAttendanceRouter(&stubAttendanceService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/records/abc", nil)
		req.Header.Set("Authorization", bearerToken(t, domain.RoleSchoolAdmin, &schoolID))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
