package user

import (
	"net/http"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.NewField(http.StatusConflict, "email", "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusUnauthorized, "user is inactive")
	ErrEmailRequired      = apperror.NewField(http.StatusBadRequest, "email", "email is required")
	ErrPasswordTooShort   = apperror.NewField(http.StatusBadRequest, "password", "password is too short")
)

// User is a customer (pet owner) or a clinic staff member.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsStaff      bool
}

// Name returns the display name, falling back to the email.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	IsStaff  *bool
	IsActive *bool // Use pointer to distinguish between false and nil (not set)

	Page     int
	PageSize int
}
