package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries the single identification factor. The portal has no
// separate password: the UI mirrors the national id into a read-only field.
type LoginRequest struct {
	NationalID string `json:"national_id" validate:"required"`
	IP         string `json:"-"`
	UserAgent  string `json:"-"`
}

// LoginResponse is returned after a successful lookup.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Student     Student   `json:"student"`
}

// PortalClaims are the JWT claims issued for a signed-in student.
type PortalClaims struct {
	StudentID  string     `json:"student_id"`
	FullName   string     `json:"full_name"`
	Department Department `json:"department"`
	Level      int        `json:"level"`
	jwt.RegisteredClaims
}
