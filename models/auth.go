package models

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	FacultyID string `json:"faculty_id"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
