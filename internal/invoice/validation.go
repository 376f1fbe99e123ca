package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingFields is matched by errors.Is when required input is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidFields is matched by errors.Is when input has the wrong format.
	ErrInvalidFields = errors.New("invalid fields")
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ValidationError lists every problem with an invoice form at once.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", ErrInvalidFields, strings.Join(e.Invalid, ", ")))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	var errs []error
	if len(e.Missing) > 0 {
		errs = append(errs, ErrMissingFields)
	}
	if len(e.Invalid) > 0 {
		errs = append(errs, ErrInvalidFields)
	}
	return errs
}

// Validate checks the form before anything is sent. Rows left entirely blank
// are ignored; a partly filled row must have a description, quantity and
// rate, and at least one row must be filled.
func (inv Invoice) Validate() error {
	verr := &ValidationError{}

	required := []struct {
		label string
		value string
	}{
		{"Buyer name", inv.BuyerName},
		{"Buyer address", inv.BuyerAddress},
		{"Buyer city", inv.BuyerCity},
		{"Buyer state", inv.BuyerState},
		{"Buyer pincode", inv.BuyerPincode},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			verr.Missing = append(verr.Missing, field.label)
		}
	}

	pincode := strings.TrimSpace(inv.BuyerPincode)
	if pincode != "" && !pincodePattern.MatchString(pincode) {
		verr.Invalid = append(verr.Invalid, "Buyer pincode must be 6 digits")
	}

	filled := 0
	for i, item := range inv.Items {
		if item.blank() {
			continue
		}
		filled++
		row := i + 1
		if strings.TrimSpace(item.Description) == "" {
			verr.Missing = append(verr.Missing, fmt.Sprintf("Item %d description", row))
		}
		if strings.TrimSpace(item.Quantity) == "" {
			verr.Missing = append(verr.Missing, fmt.Sprintf("Item %d quantity", row))
		}
		if strings.TrimSpace(item.Rate) == "" {
			verr.Missing = append(verr.Missing, fmt.Sprintf("Item %d rate", row))
		}
	}
	if filled == 0 {
		verr.Missing = append(verr.Missing, "At least one item")
	}

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}
