package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jessevdk/go-flags"

	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
)

func init() {
	parser.AddCommand("traverse", "Show match details", "Print a JSON object per domain describing the matched node", &TraverseCmd{})
}

var _ flags.Commander = (*TraverseCmd)(nil)

type TraverseCmd struct {
	Sources

	Args struct {
		Domains []string `positional-arg-name:"DOMAIN" required:"1"`
	} `positional-args:"yes"`
}

type traverseResult struct {
	Domain   string `json:"domain"`
	Match    bool   `json:"match"`
	Pattern  string `json:"pattern,omitempty"`
	Suffix   string `json:"suffix,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Wildcard bool   `json:"wildcard"`
	Exact    bool   `json:"exact"`
}

func (c *TraverseCmd) Execute(args []string) error {
	t, err := c.Compile(context.Background())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	for _, d := range c.Args.Domains {
		if err := domaintrie.ValidateDomain(d); err != nil {
			slog.Warn("Domain can never match", "err", err)
		}

		res := traverseResult{Domain: d}
		if m, ok := t.Traverse(d); ok {
			res.Match = true
			res.Pattern = m.String()
			res.Suffix = m.Suffix
			res.Kind = m.Kind.String()
			res.Wildcard = m.Node.IsWildcard()
			res.Exact = m.Node.IsExact()
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return nil
}
