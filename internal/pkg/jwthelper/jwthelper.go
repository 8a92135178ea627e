package jwthelper

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schoolqr/attendance-api/internal/domain"
)

// TokenLifetime is fixed: there is no refresh flow, expiry forces a new
// login.
const TokenLifetime = time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	UserID   uint   `json:"uid"`
	Role     string `json:"role"`
	SchoolID *uint  `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a self-contained HS256 credential carrying the
// subject, role and school affiliation.
func GenerateToken(signingKey []byte, userID uint, role domain.Role, schoolID *uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Role:     string(role),
		SchoolID: schoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(signingKey)
}

// ParseToken verifies the signature and decodes the identity. A bad
// signature or malformed payload yields ErrInvalidToken; a good signature
// past its expiry yields ErrTokenExpired.
func ParseToken(signingKey []byte, raw string) (domain.Identity, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}

		return domain.Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	identity := domain.Identity{
		UserID:   claims.UserID,
		Role:     role,
		SchoolID: claims.SchoolID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return identity, nil
}
