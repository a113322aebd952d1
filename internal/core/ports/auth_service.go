package ports

import (
	"context"

	"github.com/smartcampus/campus-portal/internal/core/domain"
)

// LoginInput carries the credentials posted to /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,campus_email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput carries the registration form posted to /auth/signup. Extra
// holds any further registration fields; they are posted alongside the
// validated ones without being checked.
type SignupInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,campus_email"`
	Password   string `json:"password" validate:"required,campus_password"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=student faculty maintenance admin"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	StudentID  string `json:"student_id,omitempty"`

	Extra map[string]any `json:"-" validate:"-"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Signup(ctx context.Context, in SignupInput) (*domain.AuthResult, error)
	Logout(ctx context.Context) (domain.Destination, error)
	RedirectToDashboard(role string) domain.Destination
}
