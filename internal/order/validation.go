package order

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCustomer = errors.New("invalid customer information")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
)

// CheckoutInfo is the customer form submitted at checkout.
type CheckoutInfo struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	RegionID int    `json:"region_id" validate:"required"`
	Commune  string `json:"commune" validate:"required"`
}

// Normalize trims surrounding whitespace from the text fields.
func (c CheckoutInfo) Normalize() CheckoutInfo {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Commune = strings.TrimSpace(c.Commune)
	return c
}

// ValidationError lists the offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("%v: %s", ErrInvalidCustomer, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCustomer
}

var messages = map[string]string{
	"full_name": "Full name is required",
	"phone":     "Phone is required",
	"address":   "Address is required",
	"region_id": "Select a wilaya",
	"commune":   "Commune is required",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var defaultValidator = newValidator()

// Validate checks that every required checkout field is present. It returns
// a *ValidationError on failure.
func Validate(info CheckoutInfo) error {
	return validate(defaultValidator, info.Normalize())
}

func validate(v *validator.Validate, info CheckoutInfo) error {
	err := v.Struct(info)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidCustomer, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
