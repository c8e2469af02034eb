package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const emailRequired = "email is required"

// EmailRule returns a non-empty reason when email is unacceptable.
type EmailRule interface {
	Check(email string) string
}

type requiredEmail struct{}

func (requiredEmail) Check(email string) string {
	if email == "" {
		return emailRequired
	}
	return ""
}

type strictEmail struct {
	v *validator.Validate
}

func (s strictEmail) Check(email string) string {
	if email == "" {
		return emailRequired
	}
	if err := s.v.Var(email, "email"); err != nil {
		return fmt.Sprintf("%q is not a valid email address", email)
	}
	return ""
}

// NewEmailRule only requires a non-empty string unless strict is set, in
// which case the address must also be well formed.
func NewEmailRule(strict bool) EmailRule {
	if strict {
		return strictEmail{v: validator.New()}
	}
	return requiredEmail{}
}
