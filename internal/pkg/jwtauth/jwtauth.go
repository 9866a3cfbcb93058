package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
)

const issuer = "taskify"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

func GetToken(u models.User, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		ID: u.ID.String(),
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	token, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token error: %w", err)
	}

	return token, nil
}

// ValidateToken returns the user id carried by the token.
func ValidateToken(token, secret string) (uuid.UUID, error) {
	var claims Claims

	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token error: %w", err)
	}

	if !t.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return id, nil
}
