// Package domaintrie matches domain names against exact and wildcard
// domain patterns using a tree keyed by labels in reverse order.
//
// A pattern with a leading "." (".example.com") matches every subdomain
// of example.com. Any other pattern matches only itself. Labels are
// compared byte for byte; callers normalize case and trailing dots.
//
// A Trie is not safe for concurrent use while Insert is running.
// Once all patterns are inserted, Lookup and Traverse may be called
// from multiple goroutines.
package domaintrie

// Node is one label position in the reversed-label tree.
type Node struct {
	children map[string]*Node
	wildcard bool // any subdomain below this node matches
	exact    bool // terminal of an exact pattern
}

// IsWildcard reports whether n is a wildcard boundary.
func (n *Node) IsWildcard() bool { return n.wildcard }

// IsExact reports whether n terminates an exact pattern.
func (n *Node) IsExact() bool { return n.exact }

func (n *Node) child(label string) (*Node, bool) {
	c, ok := n.children[label]
	return c, ok
}

func (n *Node) getOrCreate(label string) *Node {
	if c, ok := n.children[label]; ok {
		return c
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	c := &Node{}
	n.children[label] = c
	return c
}

// Trie stores domain patterns. The zero value is an empty trie.
type Trie struct {
	// root holds the TLD labels; its flags are never set.
	root Node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{}
}

// Insert adds a pattern to the trie.
//
// ".example.com" marks the node for example.com as a wildcard boundary.
// "example.com" marks the node for example.com as an exact terminal.
// Inserting a pattern twice has no further effect. An empty pattern, a
// lone "." or a pattern with an empty label returns ErrInvalidPattern
// and leaves the trie untouched.
func (t *Trie) Insert(pattern string) error {
	labels, wildcard, err := splitPattern(pattern)
	if err != nil {
		return err
	}

	n := &t.root
	for i := len(labels) - 1; i >= 0; i-- {
		n = n.getOrCreate(labels[i])
	}

	if wildcard {
		n.wildcard = true
	} else {
		n.exact = true
	}
	return nil
}

// Lookup returns the matched suffix of domain, prefixed with "." when the
// matched node is a wildcard boundary. A node can be both an exact
// terminal and a boundary, in which case the exact hit is still written
// with the ".".
func (t *Trie) Lookup(domain string) (string, bool) {
	m, ok := t.Traverse(domain)
	if !ok {
		return "", false
	}
	return m.String(), true
}

// Match is the result of a successful Traverse.
type Match struct {
	// Suffix is the matched part of the domain, without a leading ".".
	Suffix string
	Kind   Kind
	Node   *Node
}

// String returns the suffix, with a leading "." if the node is a
// wildcard boundary.
func (m Match) String() string {
	if m.Node != nil && m.Node.IsWildcard() {
		return "." + m.Suffix
	}
	return m.Suffix
}

// Traverse walks domain from its last label inward.
//
// If every label is consumed and the final node terminates an exact
// pattern, that node is returned. Otherwise the deepest wildcard
// boundary passed before the final label is returned. The walk stops at
// the first label with no child node.
func (t *Trie) Traverse(domain string) (Match, bool) {
	labels, ok := splitLabels(domain)
	if !ok {
		return Match{}, false
	}

	var (
		fallback Match
		found    bool
	)

	n := &t.root
	off := len(domain)
	for i := len(labels) - 1; i >= 0; i-- {
		l := labels[i]
		if n, ok = n.child(l); !ok {
			break
		}

		// labels are substrings of domain, so the suffix matched so far
		// always ends the domain
		off -= len(l)
		suffix := domain[off:]
		off-- // the dot

		if i == 0 {
			if n.exact {
				return Match{Suffix: suffix, Kind: KindExact, Node: n}, true
			}
			break
		}

		if n.wildcard {
			fallback = Match{Suffix: suffix, Kind: KindWildcard, Node: n}
			found = true
		}
	}

	return fallback, found
}
