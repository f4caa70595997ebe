package main

import (
	"context"
	"errors"
	"slices"

	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
	"github.com/gilliginsisland/domainlookup/pkg/flagutil"
	"github.com/gilliginsisland/domainlookup/pkg/ruleset"
)

// Sources selects where patterns come from. Flags add to the config.
type Sources struct {
	ConfigPath flagutil.Path   `short:"c" long:"config" description:"Path to the YAML config file"`
	Files      []flagutil.Path `short:"f" long:"file" description:"Pattern list file, one pattern per line (repeatable)"`
	Patterns   []string        `short:"p" long:"pattern" description:"Pattern to register, \".example.com\" for subdomains (repeatable)"`
}

func (s *Sources) Config() (*ruleset.Config, error) {
	c := &ruleset.Config{}
	if s.ConfigPath != "" {
		var err error
		if c, err = ruleset.ParseConfigFile(s.ConfigPath); err != nil {
			return nil, err
		}
	}
	c.Patterns = slices.Concat(c.Patterns, s.Patterns)
	c.Files = slices.Concat(c.Files, s.Files)
	return c, nil
}

func (s *Sources) Compile(ctx context.Context) (*domaintrie.Trie, error) {
	c, err := s.Config()
	if err != nil {
		return nil, err
	}
	if len(c.Patterns) == 0 && len(c.Files) == 0 {
		return nil, errors.New("no patterns given: use --config, --file or --pattern")
	}
	return c.Compile(ctx)
}
