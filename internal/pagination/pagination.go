// Package pagination holds the page arithmetic shared by every listing
// endpoint. Pure functions, no I/O.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
)

// PageNum reads the requested page from query params, defaulting to 1.
// The value is returned as-is: page 0 or negative produces a negative
// skip and it is the caller's job to decide what to do with it.
func PageNum(q url.Values) int {
	return intOrDefault(q, "page", DefaultPage)
}

// Limit reads the requested page size, defaulting to 9.
func Limit(q url.Values) int {
	return intOrDefault(q, "limit", DefaultLimit)
}

// Skip converts a 1-based page number into a result offset.
func Skip(page, limit int) int {
	return (page - 1) * limit
}

// PageCount is ceil(total/limit) via integer ceiling division, 0 when
// total is 0. A non-positive limit yields 0 pages rather than dividing
// by zero.
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

func intOrDefault(q url.Values, key string, default_ int) int {
	if raw := q.Get(key); raw != "" {
		val, err := strconv.Atoi(raw)
		if err == nil {
			return val
		}
	}

	return default_
}
