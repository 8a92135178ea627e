package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/pkg/jwthelper"
)

const identityKey = "identity"

var ErrMissingIdentity = errors.New("no identity in request context")

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// decoded identity in the request context for handlers.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(ctx, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(ctx, "invalid authorization header")
			return
		}

		identity, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			if errors.Is(err, jwthelper.ErrTokenExpired) {
				abortUnauthorized(ctx, "token expired")
				return
			}

			abortUnauthorized(ctx, "invalid token")
			return
		}
		if identity.IsExpired(time.Now()) {
			abortUnauthorized(ctx, "token expired")
			return
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

// IdentityFromContext retrieves the identity stored by VerifyJWT.
func IdentityFromContext(ctx *gin.Context) (domain.Identity, error) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return domain.Identity{}, ErrMissingIdentity
	}

	identity, ok := v.(domain.Identity)
	if !ok {
		return domain.Identity{}, ErrMissingIdentity
	}

	return identity, nil
}

func abortUnauthorized(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": msg,
	})
}
