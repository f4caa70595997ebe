package domaintrie

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Kind tells how a domain was matched.
type Kind int

const (
	// KindExact is a match on the terminal node of an exact pattern.
	KindExact Kind = iota
	// KindWildcard is a fallback to the deepest wildcard boundary.
	KindWildcard
)
