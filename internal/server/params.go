package server

import (
	"net/url"
	"strings"

	"bookcat/internal/pagination"
)

func getMulti(key string, q url.Values) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}

	vals := make([]string, 0, len(raw))
	for _, val := range raw {
		val = strings.TrimSpace(val)
		if val != "" {
			vals = append(vals, val)
		}
	}

	return vals
}

// clampSkip keeps negative page numbers (which the pagination helpers
// pass through untouched) from reaching Cypher, which rejects a
// negative SKIP.
func clampSkip(skip int) int {
	if skip < 0 {
		return 0
	}

	return skip
}

// clampLimit falls back to the default page size when the requested
// limit is zero or negative: Cypher rejects a negative LIMIT, and a
// zero limit would make the page-count arithmetic meaningless.
func clampLimit(limit int) int {
	if limit < 1 {
		return pagination.DefaultLimit
	}

	return limit
}
