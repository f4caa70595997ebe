package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

var errNoMatch = errors.New("one or more domains did not match")

func init() {
	parser.AddCommand("lookup", "Look up domains", "Print the pattern each domain matches, or \"-\" if none", &LookupCmd{})
}

var _ flags.Commander = (*LookupCmd)(nil)

type LookupCmd struct {
	Sources

	Args struct {
		Domains []string `positional-arg-name:"DOMAIN" required:"1"`
	} `positional-args:"yes"`
}

// Execute prints one line per domain and fails if any domain is unmatched.
func (c *LookupCmd) Execute(args []string) error {
	t, err := c.Compile(context.Background())
	if err != nil {
		return err
	}

	missed := false
	for _, d := range c.Args.Domains {
		m, ok := t.Lookup(d)
		if !ok {
			m, missed = "-", true
		}
		fmt.Fprintf(stdout, "%s\t%s\n", d, m)
	}

	if missed {
		return errNoMatch
	}
	return nil
}
