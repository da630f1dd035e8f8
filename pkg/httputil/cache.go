package httputil

import (
	"fmt"
	"net/http"
	"time"
)

// Cache policies of the list endpoints. Responses are tenant-specific, so
// every policy is private.
var (
	CacheUsers    = CachePolicy{MaxAge: 10 * time.Second, StaleWhileRevalidate: 30 * time.Second}
	CacheMessages = CachePolicy{MaxAge: 5 * time.Second, StaleWhileRevalidate: 15 * time.Second}
	CacheCatalog  = CachePolicy{MaxAge: 30 * time.Second, StaleWhileRevalidate: 120 * time.Second}
	CacheDefault  = CachePolicy{MaxAge: 10 * time.Second, StaleWhileRevalidate: 30 * time.Second}
)

// CachePolicy is a short client-side cache window
type CachePolicy struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

// Header renders the Cache-Control value
func (c CachePolicy) Header() string {
	return fmt.Sprintf("private, max-age=%d, stale-while-revalidate=%d",
		int(c.MaxAge.Seconds()), int(c.StaleWhileRevalidate.Seconds()))
}

// List sends a page in the list envelope with the given cache policy
func List[T any](w http.ResponseWriter, page Page[T], cache CachePolicy) {
	w.Header().Set("Cache-Control", cache.Header())
	JSONWithMeta(w, http.StatusOK, page.Items, &page.Meta)
}
