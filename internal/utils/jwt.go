package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	UserID  string `json:"user_id"`
	IsStaff bool   `json:"is_staff,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided user ID. Staff tokens
// carry an is_staff claim so the admin gate does not need a user lookup.
func GenerateToken(secret string, userID uuid.UUID, staff bool, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID:  userID.String(),
		IsStaff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded user ID and staff
// flag.
func ParseToken(secret, tokenString string) (uuid.UUID, bool, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		id, err := uuid.Parse(claims.UserID)
		return id, claims.IsStaff, err
	}

	return uuid.Nil, false, jwt.ErrTokenInvalidClaims
}
