package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList stores an ordered list in a jsonb column. A nil list is written as [].
type JSONList[T any] []T

// Value implements driver.Valuer
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}

// Scan implements sql.Scanner
func (l *JSONList[T]) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONList", value)
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	*l = out
	return nil
}

// MarshalJSON keeps nil lists as [] in API responses
func (l JSONList[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}
