// Package server provides the HTTP REST API for the Scrapper backend.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates the old password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "old password is incorrect"
}

// ErrSamePassword indicates old and new password are identical
type ErrSamePassword struct{}

func (e *ErrSamePassword) Error() string {
	return "old and new password cannot be the same"
}

// ErrInvalidResetToken indicates the reset token is unknown or expired
type ErrInvalidResetToken struct{}

func (e *ErrInvalidResetToken) Error() string {
	return "invalid or expired reset token"
}

// ErrAlertNotFound indicates the alert does not exist or is not owned by
// the requesting user
type ErrAlertNotFound struct {
	AlertID uuid.UUID
}

func (e *ErrAlertNotFound) Error() string {
	return fmt.Sprintf("unable to access job alert with id %s", e.AlertID)
}

// ErrAlertLimit indicates the user has reached their alert quota
type ErrAlertLimit struct {
	Message string
}

func (e *ErrAlertLimit) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrAlertNotFound:
		return http.StatusNotFound
	case *ErrAlertLimit:
		return http.StatusForbidden
	case *ErrSamePassword:
		return http.StatusUnprocessableEntity
	case *ErrInvalidResetToken:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
