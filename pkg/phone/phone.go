// Package phone normalizes the phone numbers admins and contacts are keyed by.
//
// Numbers are stored as bare digits (country code included when the caller
// supplied one), which is what the WhatsApp side sends us.
package phone

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country code
const DefaultRegion = "IN"

// Sanitize strips everything but digits
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validator checks that sanitized numbers are plausible for a region
type Validator struct {
	region string
}

// NewValidator creates a validator for the given default region
func NewValidator(region string) *Validator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Validator{region: region}
}

// Normalize sanitizes raw and checks it with libphonenumber. The returned
// value is the digits-only form that gets stored.
func (v *Validator) Normalize(raw string) (string, error) {
	digits := Sanitize(raw)
	if digits == "" {
		return "", fmt.Errorf("phone number cannot be empty")
	}

	if !v.possible(digits) {
		return "", fmt.Errorf("phone number %q is not a possible number", digits)
	}
	return digits, nil
}

// possible accepts a national number for the default region, or a number
// whose leading digits form a known country code.
func (v *Validator) possible(digits string) bool {
	if parsed, err := phonenumbers.Parse(digits, v.region); err == nil && phonenumbers.IsPossibleNumber(parsed) {
		return true
	}
	parsed, err := phonenumbers.Parse("+"+digits, "ZZ")
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(parsed)
}
