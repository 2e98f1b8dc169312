package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultUserPoints is the reward balance every new account starts with.
const DefaultUserPoints = 100

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Phone        *string   `json:"phone" db:"phone"`
	CPF          *string   `json:"cpf" db:"cpf"`
	Points       int       `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	CPF    *string `json:"cpf"`
	Points int     `json:"points"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		CPF:    u.CPF,
		Points: u.Points,
	}
}
