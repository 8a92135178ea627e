package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", NewAuthenticator(testSigningKey).VerifyJWT(), func(ctx *gin.Context) {
		identity, err := IdentityFromContext(ctx)
		if err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, identity)
	})

	return router
}

func TestVerifyJWT(t *testing.T) {
	router := newProtectedRouter()

	get := func(authorization string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token passes and exposes the identity", func(t *testing.T) {
		schoolID := uint(5)
		token, err := jwthelper.GenerateToken([]byte(testSigningKey), 7, domain.RoleTeacher, &schoolID)
		require.NoError(t, err)

		w := get("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"teacher"`)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("Token abc").Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		token, err := jwthelper.GenerateToken([]byte("other-key"), 7, domain.RoleTeacher, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, get("Bearer "+token).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwthelper.Claims{
			UserID: 7,
			Role:   string(domain.RoleTeacher),
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
		require.NoError(t, err)

		w := get("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})
}
