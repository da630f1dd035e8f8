package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// decimalPattern is the plain decimal notation Postgres numeric accepts.
// Fractions, hex and huge exponents are refused.
var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]{1,3})?$`)

// Amount is a decimal money value kept in its textual form so values such
// as "500" survive storage and JSON untouched. JSON input may be a string
// or a number.
type Amount string

// UnmarshalJSON accepts "500", 500 and 500.5
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a numeric string")
	}
	*a = Amount(n.String())
	return nil
}

// MarshalJSON writes the amount as a JSON string
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// Value implements driver.Valuer. An empty amount is NULL.
func (a Amount) Value() (driver.Value, error) {
	if a == "" {
		return nil, nil
	}
	return string(a), nil
}

// Rat parses the amount. Only decimal notation is accepted.
func (a Amount) Rat() (*big.Rat, bool) {
	if !decimalPattern.MatchString(string(a)) {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(string(a))
	return r, ok
}

// Valid reports whether the amount is a non-negative decimal
func (a Amount) Valid() bool {
	r, ok := a.Rat()
	return ok && r.Sign() >= 0
}

// formatRat renders r with at most two decimals and no trailing zeros
func formatRat(r *big.Rat) Amount {
	s := r.FloatString(2)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return Amount(s)
}
