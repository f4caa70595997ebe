// Package dnsname puts query names and pattern text into the form the
// domain trie compares byte for byte.
package dnsname

import "strings"

// Canonical lowercases s and strips surrounding whitespace and a
// single trailing dot, so DNS names and list entries compare equal.
// The root name "." is left as is.
func Canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 1 {
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Pattern canonicalizes a pattern and rewrites the "*.example.com"
// spelling to ".example.com".
func Pattern(s string) string {
	s = Canonical(s)
	if base, ok := strings.CutPrefix(s, "*."); ok {
		return "." + base
	}
	return s
}
