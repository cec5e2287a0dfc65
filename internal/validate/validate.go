// Package validate holds the client-side form rules of the QuitQ views.
// They only filter obviously bad input; the backend re-validates everything.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern    = regexp.MustCompile(`^[a-zA-Z\s-]{2,}$`)
	contactPattern = regexp.MustCompile(`^\d{10}$`)
	postalPattern  = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)
)

// fieldMessages maps a failed tag to the message shown next to the field
var fieldMessages = map[string]string{
	"personname":     "Only letters, spaces, hyphens; min 2 chars.",
	"contact":        "Must be exactly 10 digits.",
	"strongpassword": "Min 6 chars, 1 uppercase, 1 lowercase, 1 number.",
	"email":          "Invalid email format.",
	"postalcode":     "Invalid postal code.",
	"gt":             "Must be greater than zero.",
	"gte":            "Must not be negative.",
}

// Validator wraps go-playground/validator with the QuitQ custom rules
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom rules registered
func New() *Validator {
	v := validator.New()

	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return contactPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return &Validator{v: v}
}

// StrongPassword requires at least 6 characters with an upper case letter,
// a lower case letter and a digit
func StrongPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// FieldError is a single invalid field
type FieldError struct {
	Field   string
	Message string
}

// Errors is the list of invalid fields of a form
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// Struct validates a form and returns Errors describing every invalid field
func (v *Validator) Struct(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("Failed %s validation.", fe.Tag())
}

// LoginForm is the sign-in form
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegistrationForm is the sign-up form. Admin accounts cannot be self-registered.
type RegistrationForm struct {
	Name            string `validate:"required,personname"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,strongpassword"`
	Role            string `validate:"required,oneof=USER SELLER"`
	ContactNumber   string `validate:"omitempty,contact"`
	Gender          string `validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address         string
	BusinessName    string `validate:"required_if=Role SELLER"`
	TaxID           string
	BusinessAddress string
}

// ProfileForm holds the editable fields of a profile
type ProfileForm struct {
	Name          string `validate:"required,personname"`
	ContactNumber string `validate:"omitempty,contact"`
	Gender        string `validate:"omitempty,oneof=MALE FEMALE OTHER"`
}

// SellerProfileForm holds the editable fields of a seller's business profile
type SellerProfileForm struct {
	BusinessName    string `validate:"required"`
	TaxID           string
	BusinessAddress string
	ContactNumber   string `validate:"omitempty,contact"`
}

// ProductForm is the seller's add/edit product form
type ProductForm struct {
	Name        string  `validate:"required,min=2"`
	Description string  `validate:"max=2000"`
	Price       float64 `validate:"gt=0"`
	Quantity    int     `validate:"gte=0"`
	CategoryID  int64   `validate:"gt=0"`
	ImageURL    string  `validate:"omitempty,url"`
}

// AddressForm is the checkout shipping address form
type AddressForm struct {
	AddressLine1 string `validate:"required"`
	AddressLine2 string
	City         string `validate:"required"`
	State        string `validate:"required"`
	PostalCode   string `validate:"required,postalcode"`
	Country      string `validate:"required"`
}
