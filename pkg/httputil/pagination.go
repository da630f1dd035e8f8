package httputil

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Pagination limits used by list endpoints
const (
	DefaultLimit        = 50
	MaxLimit            = 200
	CatalogDefaultLimit = 200
	CatalogMaxLimit     = 500

	// MaxOffset bounds offsets so they always fit an int and a Postgres OFFSET
	MaxOffset = math.MaxInt32
)

// Pagination is a normalized limit/offset pair
type Pagination struct {
	Limit  int
	Offset int
}

// Probe is the row count to request: one extra row reveals whether another page exists
func (p Pagination) Probe() int {
	return p.Limit + 1
}

// ParsePagination reads limit and offset. It never fails: missing, non-numeric
// or non-positive limits fall back to defaultLimit, limits above maxLimit are
// clamped, and missing or negative offsets become 0. Offsets are capped at MaxOffset.
func ParsePagination(q url.Values, defaultLimit, maxLimit int) Pagination {
	limit := defaultLimit
	if v, ok := parseNumber(q.Get("limit")); ok && v >= 1 {
		limit = int(math.Min(v, float64(maxLimit)))
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if v, ok := parseNumber(q.Get("offset")); ok && v >= 0 {
		offset = int(math.Min(v, MaxOffset))
	}

	return Pagination{Limit: limit, Offset: offset}
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Floor(v), true
}

// ParseSearch returns the trimmed value of the first non-empty key, "q" by default
func ParseSearch(q url.Values, keys ...string) string {
	if len(keys) == 0 {
		keys = []string{"q"}
	}
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// ParseStatus returns the trimmed status parameter, or fallback when absent
func ParseStatus(q url.Values, fallback string) string {
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		return v
	}
	return fallback
}

// OneOf returns value when it is in allowed, otherwise fallback
func OneOf(value string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// ParseTime reads an RFC 3339 timestamp. Unparsable values are ignored.
func ParseTime(q url.Values, key string) *time.Time {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Page is one slice of a list endpoint
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// NewPage trims the probe row fetched with Pagination.Probe and fills the meta
func NewPage[T any](rows []T, p Pagination) Page[T] {
	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}
	if rows == nil {
		rows = []T{}
	}

	meta := Meta{
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: hasMore,
	}
	if hasMore {
		next := p.Offset + p.Limit
		meta.NextOffset = &next
	}

	return Page[T]{Items: rows, Meta: meta}
}
