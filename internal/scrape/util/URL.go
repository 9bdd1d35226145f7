package util

import (
	"net/url"
	"strings"
)

// StripQuery drops everything from the first '?' on. Card links carry
// tracking parameters that change on every fetch.
func StripQuery(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// QueryValue escapes s for a query string with spaces as %20, the form the
// search page expects for multi-word roles and locations. A literal '+' is
// already %2B after QueryEscape, so every remaining '+' was a space.
func QueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
