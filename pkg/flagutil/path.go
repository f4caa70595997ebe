package flagutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Path is a file path whose leading "~" is expanded when parsed.
type Path string

var _ flags.Unmarshaler = (*Path)(nil)

// UnmarshalText expands the user's home directory.
func (p *Path) UnmarshalText(text []byte) error {
	path, err := Path(text).ExpandUser()
	if err != nil {
		return fmt.Errorf("error parsing path: %w", err)
	}
	*p = Path(path)
	return nil
}

// UnmarshalFlag calls UnmarshalText for go-flags compatibility.
func (p *Path) UnmarshalFlag(value string) error {
	return p.UnmarshalText([]byte(value))
}

func (p Path) String() string {
	return string(p)
}

// ExpandUser replaces a leading "~" or "~/" with the current user's home directory.
func (p Path) ExpandUser() (string, error) {
	s := string(p)
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %q: %w", s, err)
	}
	return filepath.Join(home, s[1:]), nil
}
