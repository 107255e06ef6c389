// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the default number of rows in paged lists.
const PageSize = 20

// MaxPageSize caps caller-supplied limits.
const MaxPageSize = 100

// Page holds the parsed paging parameters for a list request.
type Page struct {
	Limit  int
	Offset int
}

// Parse extracts "limit" and "offset" query parameters, clamping them to
// sane values. Invalid or missing values fall back to the defaults.
func Parse(r *http.Request) Page {
	p := Page{Limit: PageSize}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			p.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Offset = n
		}
	}
	return p
}

// LimitPlusOne returns Limit+1 as int64 for look-ahead pagination
// (fetch one extra row to detect hasNext).
func (p Page) LimitPlusOne() int64 { return int64(p.Limit + 1) }

// Envelope is the pagination block attached to list responses.
type Envelope struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasNext bool `json:"has_next"`
}

// Trim cuts a look-ahead slice down to the page size and reports whether a
// next page exists. Call after fetching Limit+1 rows.
func Trim[T any](rows *[]T, p Page) Envelope {
	hasNext := false
	if len(*rows) > p.Limit {
		*rows = (*rows)[:p.Limit]
		hasNext = true
	}
	return Envelope{Limit: p.Limit, Offset: p.Offset, HasNext: hasNext}
}
