package model

import "time"

type SignupDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=5,maxbytes=72"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenClaims struct {
	UserID UserID
	Email  string
}

type AuthResult struct {
	Token     string    `json:"token"`
	UserID    UserID    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StatusDTO struct {
	Status string `json:"status" validate:"required,max=255"`
}
