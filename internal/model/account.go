package model

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// GPARecord is the GPA a user chose to keep on the account server.
type GPARecord struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	GPA       float64   `json:"gpa" db:"gpa"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Profile struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	GPA       *float64   `json:"gpa,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	GPAAt     *time.Time `json:"gpa_updated_at,omitempty"`
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
	Error     string `json:"error,omitempty"`
}

type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type GPARequest struct {
	GPA *float64 `json:"gpa" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
