package auth

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/skillsenselab/classboard/errors"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,complexity"`
	Role     string `json:"role" validate:"required,oneof=student teacher parent"`
}

// LoginRequest is the payload for authenticating with credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// passwordPunctuation is the accepted special-character set.
const passwordPunctuation = "@$!%*?&"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("complexity", passwordComplexity); err != nil {
		panic(err)
	}
	return v
}

// passwordComplexity requires at least one lowercase letter, one uppercase
// letter, one digit, and one character from passwordPunctuation. Characters
// outside those four classes are rejected.
func passwordComplexity(fl validator.FieldLevel) bool {
	var lower, upper, digit, punct bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			lower = true
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordPunctuation, r):
			punct = true
		default:
			return false
		}
	}
	return lower && upper && digit && punct
}

// Validate checks the registration payload, reporting the first violation.
func (r *RegisterRequest) Validate() error {
	return checkStruct(r)
}

// Validate checks the login payload, reporting the first violation.
func (r *LoginRequest) Validate() error {
	return checkStruct(r)
}

func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if violations, ok := err.(validator.ValidationErrors); ok && len(violations) > 0 {
		return apperrors.Validation(violationMessage(violations[0]))
	}
	return apperrors.Validation("Invalid request payload")
}

// violationMessage renders a single field violation as a user-facing message.
func violationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name must be at most 50 characters"
		}
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email address"
	case "Password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "min":
			return "Password must be at least 8 characters"
		case "complexity":
			return "Password must contain uppercase, lowercase, number and special character"
		}
	case "Role":
		if fe.Tag() == "required" {
			return "Role is required"
		}
		return "Role must be one of: student, teacher, parent"
	}
	return "Invalid " + strings.ToLower(fe.Field())
}
