package domaintrie

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPattern = errors.New("invalid domain pattern")
	ErrInvalidDomain  = errors.New("invalid domain")
)

// splitPattern splits a pattern into its labels in domain order.
// A leading "." selects wildcard mode and is not part of the labels.
func splitPattern(pattern string) (labels []string, wildcard bool, err error) {
	base, wildcard := strings.CutPrefix(pattern, ".")
	labels, ok := splitLabels(base)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return labels, wildcard, nil
}

// splitLabels splits s on "." and reports false if s is empty or
// yields an empty label.
func splitLabels(s string) ([]string, bool) {
	if s == "" {
		return nil, false
	}
	labels := strings.Split(s, ".")
	for _, l := range labels {
		if l == "" {
			return nil, false
		}
	}
	return labels, true
}

// ValidateDomain returns ErrInvalidDomain if domain can never match
// any pattern: it is empty or contains an empty label.
func ValidateDomain(domain string) error {
	if _, ok := splitLabels(domain); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	return nil
}
