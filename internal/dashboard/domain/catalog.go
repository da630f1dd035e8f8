package domain

import "strings"

// Duration units of service items
const (
	DurationMinutes = "minutes"
	DurationHours   = "hours"
	DurationWeeks   = "weeks"
	DurationMonths  = "months"
)

// DurationUnits lists the valid duration units
var DurationUnits = []string{DurationMinutes, DurationHours, DurationWeeks, DurationMonths}

var minutesPerUnit = map[string]int{
	DurationMinutes: 1,
	DurationHours:   60,
	DurationWeeks:   10080,
	DurationMonths:  43200,
}

// QuantityUnits lists the valid product quantity units
var QuantityUnits = []string{"g", "kg", "ml", "liter", "meter", "pcs", "custom"}

// ToMinutes converts a duration to minutes. Unknown units count as minutes.
func ToMinutes(value int, unit string) int {
	factor, ok := minutesPerUnit[unit]
	if !ok {
		factor = 1
	}
	return value * factor
}

// NormalizeItemType lowercases an item type; unknown values become ""
func NormalizeItemType(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case ItemService, ItemProduct:
		return v
	default:
		return ""
	}
}
