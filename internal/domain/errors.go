package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// RegistrationError is returned by signup and unregister.
type RegistrationError struct {
	Kind     error
	Activity ActivityName
	Email    Email
	Msg      string
}

func (e *RegistrationError) Error() string { return e.Msg }

func (e *RegistrationError) Unwrap() error { return e.Kind }

func NewActivityNotFound(name ActivityName) *RegistrationError {
	return &RegistrationError{
		Kind:     ErrNotFound,
		Activity: name,
		Msg:      fmt.Sprintf("Activity %q not found", string(name)),
	}
}

func NewAlreadySignedUp(name ActivityName, email Email) *RegistrationError {
	return &RegistrationError{
		Kind:     ErrConflict,
		Activity: name,
		Email:    email,
		Msg:      fmt.Sprintf("%s is already signed up for %s", email, name),
	}
}

func NewNotSignedUp(name ActivityName, email Email) *RegistrationError {
	return &RegistrationError{
		Kind:     ErrConflict,
		Activity: name,
		Email:    email,
		Msg:      fmt.Sprintf("%s is not signed up for %s", email, name),
	}
}

func NewActivityFull(name ActivityName, email Email, max int) *RegistrationError {
	return &RegistrationError{
		Kind:     ErrConflict,
		Activity: name,
		Email:    email,
		Msg:      fmt.Sprintf("%s is full (%d participants)", name, max),
	}
}

func NewInvalidEmail(name ActivityName, email Email, reason string) *RegistrationError {
	return &RegistrationError{
		Kind:     ErrInvalid,
		Activity: name,
		Email:    email,
		Msg:      reason,
	}
}
