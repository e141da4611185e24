package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"user_id"` //nolint:tagliatelle
	jwt.StandardClaims
}

func GetToken(u models.User, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		UserID: u.ID.String(),
		StandardClaims: jwt.StandardClaims{ //nolint:exhaustruct
			Subject:   u.Username,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token error: %w", err)
	}

	return signed, nil
}

// ValidateToken returns the user id carried by a valid token.
func ValidateToken(tokenString, secret string) (uuid.UUID, error) {
	claims := new(Claims)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v error: %w", t.Header["alg"], ErrInvalidToken)
		}

		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token error: %w", err)
	}

	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse user id error: %w", err)
	}

	return id, nil
}
