package ruleset

import (
	"bufio"
	"io"
	"strings"

	"github.com/gilliginsisland/domainlookup/pkg/dnsname"
)

// Entry is one pattern read from a list.
type Entry struct {
	Pattern string
	Line    int
}

// ReadList reads one pattern per line. Blank lines and lines starting
// with "#" are skipped, and "*.example.com" is read as ".example.com".
func ReadList(r io.Reader) ([]Entry, error) {
	var entries []Entry

	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entries = append(entries, Entry{Pattern: dnsname.Pattern(text), Line: line})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
