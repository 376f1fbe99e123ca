// Package validate checks form input on the client before any request is
// made. Every violation in a form is reported together.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// LoginForm is the sign-in screen.
type LoginForm struct {
	Phone    string `label:"Phone number" validate:"required,number,len=10"`
	Password string `label:"Password" validate:"required"`
}

// RegisterForm is the sign-up screen.
type RegisterForm struct {
	Name            string `label:"Name" validate:"required"`
	Phone           string `label:"Phone number" validate:"required,number,len=10"`
	Password        string `label:"Password" validate:"required,min=6"`
	ConfirmPassword string `label:"Confirm password" validate:"required,eqfield=Password"`
}

// ChangePasswordForm is the security settings screen.
type ChangePasswordForm struct {
	CurrentPassword string `label:"Current password" validate:"required"`
	NewPassword     string `label:"New password" validate:"required,min=6,nefield=CurrentPassword"`
	ConfirmPassword string `label:"Confirm password" validate:"required,eqfield=NewPassword"`
}

// ConnectForm links the customer to a business by its access PIN.
type ConnectForm struct {
	AccessPIN string `label:"Access PIN" validate:"required,number,len=6"`
}

// ProfileForm is the profile editor.
type ProfileForm struct {
	Name    string `label:"Name" validate:"required"`
	Email   string `label:"Email" validate:"omitempty,email"`
	Address string `label:"Address"`
	City    string `label:"City"`
	State   string `label:"State"`
	Pincode string `label:"Pincode" validate:"omitempty,number,len=6"`
}

// TransactionForm records a credit or payment.
type TransactionForm struct {
	BusinessID      string `label:"Business" validate:"required"`
	Amount          string `label:"Amount" validate:"required,amount"`
	TransactionType string `label:"Type" validate:"required,oneof=credit payment"`
	Notes           string `label:"Notes" validate:"max=255"`
}

// ErrInvalidInput is matched by errors.Is on every Errors value.
var ErrInvalidInput = errors.New("invalid input")

// FieldError is one violation.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every violation found in a form.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Fields lists the labels of the offending fields in order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Field)
	}
	return out
}

var v = newValidator()

var plainAmount = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = val.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if !plainAmount.MatchString(s) {
			return false
		}
		d, err := decimal.NewFromString(s)
		return err == nil && d.IsPositive()
	})
	return val
}

// Struct validates one of the forms in this package. It returns nil or an
// Errors value.
func Struct(form interface{}) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("error validating form: %w", err)
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "number":
		return field + " must contain only digits"
	case "len":
		return fmt.Sprintf("%s must be %s digits", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return field + " is not a valid email address"
	case "eqfield":
		return "Passwords do not match"
	case "nefield":
		return field + " must differ from the current password"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "amount":
		return field + " must be a positive number"
	default:
		return field + " is invalid"
	}
}
