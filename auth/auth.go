// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/formpoint/models"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcryptCost matches the work factor the rest of the stored hashes use.
const bcryptCost = 10

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// Claims carries the verified caller identity on every authenticated
// request. Handlers trust these fields verbatim.
type Claims struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	CurrentPosition string `json:"current_position"`
	Industry        string `json:"industry"`
	ProfilePicture  string `json:"profile_picture"`
	jwt.RegisteredClaims
}

// IssueToken signs a token carrying the user's identity claims.
func IssueToken(user models.User, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		CurrentPosition: user.CurrentPosition,
		Industry:        user.Industry,
		ProfilePicture:  user.ProfilePicture,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a bearer token. Any parse or
// validation failure collapses to ErrInvalidToken.
func VerifyToken(tokenString, secret string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// HashPassword creates a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash, password string) error {
	if hash == "" || password == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
