package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency value as it appears on the wire. The backend sends
// amounts as JSON numbers, numeric strings or not at all; every shape decodes
// without error and anything unparsable becomes zero with Malformed set.
type Amount struct {
	decimal.Decimal
	Malformed bool
}

// plainNumber is a signed decimal without exponent. Exponent forms are
// refused so a hostile value cannot force a huge coefficient.
var plainNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)$`)

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat is a convenience for tests and fixtures.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// ParseAmount parses free text. Empty or invalid input yields zero and a
// Malformed amount.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !plainNumber.MatchString(s) {
		return Amount{Malformed: true}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Malformed: true}
	}
	return Amount{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{Malformed: true}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{Malformed: true}
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	if !plainNumber.Match(data) {
		*a = Amount{Malformed: true}
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*a = Amount{Malformed: true}
		return nil
	}
	*a = Amount{Decimal: d}
	return nil
}

// Valid reports whether the amount can be counted in a ledger: it parsed and
// is greater than zero. A transaction decoded without an amount key holds
// the zero value and is not valid either.
func (a Amount) Valid() bool {
	return !a.Malformed && a.IsPositive()
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(value interface{}) error {
	a.Malformed = false
	return a.Decimal.Scan(value)
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.String(), nil
}
