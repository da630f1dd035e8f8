package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// NotesKind tells how payment notes are stored
type NotesKind int

const (
	// NotesPlain is free text stored as is
	NotesPlain NotesKind = iota
	// NotesStructured is a note with an itemized service breakdown, stored as JSON
	NotesStructured
)

// ServiceCharge is one itemized line of a payment breakdown
type ServiceCharge struct {
	Name   string `json:"name" validate:"max=255"`
	Amount Amount `json:"amount" validate:"required,amount"`
}

// PaymentNotes is the content of an appointment's payment_notes column:
// either a plain note or a note with a services breakdown.
type PaymentNotes struct {
	Kind     NotesKind
	Note     string
	Services []ServiceCharge `validate:"dive"`
}

type structuredNotes struct {
	Note     string          `json:"note"`
	Services []ServiceCharge `json:"services"`
}

// PlainNote wraps free text
func PlainNote(text string) PaymentNotes {
	return PaymentNotes{Kind: NotesPlain, Note: text, Services: []ServiceCharge{}}
}

// StructuredNote builds notes with an itemized breakdown
func StructuredNote(note string, services []ServiceCharge) PaymentNotes {
	if services == nil {
		services = []ServiceCharge{}
	}
	return PaymentNotes{Kind: NotesStructured, Note: note, Services: services}
}

// DecodePaymentNotes reads a stored value. JSON objects carrying note or
// services decode as structured notes; anything else is a plain note.
func DecodePaymentNotes(raw string) PaymentNotes {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return PlainNote(raw)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return PlainNote(raw)
	}
	_, hasNote := fields["note"]
	_, hasServices := fields["services"]
	if !hasNote && !hasServices {
		return PlainNote(raw)
	}

	var s structuredNotes
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return PlainNote(raw)
	}
	return StructuredNote(s.Note, s.Services)
}

// Encode renders the stored value. Plain text that is itself a JSON object
// with a note or services key reads back as structured notes.
func (p PaymentNotes) Encode() string {
	if p.Kind == NotesPlain {
		return p.Note
	}
	services := p.Services
	if services == nil {
		services = []ServiceCharge{}
	}
	b, _ := json.Marshal(structuredNotes{Note: p.Note, Services: services})
	return string(b)
}

// IsEmpty reports whether there is nothing worth storing
func (p PaymentNotes) IsEmpty() bool {
	return strings.TrimSpace(p.Note) == "" && len(p.Services) == 0
}

// MarshalJSON exposes notes to API clients as {note, services}
func (p PaymentNotes) MarshalJSON() ([]byte, error) {
	services := p.Services
	if services == nil {
		services = []ServiceCharge{}
	}
	return json.Marshal(structuredNotes{Note: p.Note, Services: services})
}

// UnmarshalJSON accepts a string (decoded like a stored value) or an object
func (p *PaymentNotes) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = DecodePaymentNotes(text)
		return nil
	}

	var s structuredNotes
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = StructuredNote(s.Note, s.Services)
	return nil
}

// ServicesTotal sums the service amounts. ok is false when there are no
// services or an amount is not a valid non-negative decimal.
func (p PaymentNotes) ServicesTotal() (Amount, bool) {
	if len(p.Services) == 0 {
		return "", false
	}
	sum := new(big.Rat)
	for _, s := range p.Services {
		r, ok := s.Amount.Rat()
		if !ok || r.Sign() < 0 {
			return "", false
		}
		sum.Add(sum, r)
	}
	return formatRat(sum), true
}

// ResolvePaymentTotal is the sum of the itemized services when there are
// any, otherwise the supplied total
func ResolvePaymentTotal(notes PaymentNotes, supplied *Amount) *Amount {
	if total, ok := notes.ServicesTotal(); ok {
		return &total
	}
	return supplied
}

// Scan implements sql.Scanner. NULL decodes as an empty plain note.
func (p *PaymentNotes) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = PlainNote("")
	case string:
		*p = DecodePaymentNotes(v)
	case []byte:
		*p = DecodePaymentNotes(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PaymentNotes", value)
	}
	return nil
}

// Value implements driver.Valuer. Empty notes are stored as NULL.
func (p PaymentNotes) Value() (driver.Value, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	return p.Encode(), nil
}
