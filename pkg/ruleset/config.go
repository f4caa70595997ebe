package ruleset

import (
	"context"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
	"github.com/gilliginsisland/domainlookup/pkg/env"
	"github.com/gilliginsisland/domainlookup/pkg/flagutil"
)

const DefaultListen flagutil.HostPort = "127.0.0.1:5353"

type Config struct {
	Path     flagutil.Path     `json:"-"`
	Listen   flagutil.HostPort `json:"listen" env:"DOMAINLOOKUP_LISTEN"`
	Upstream flagutil.HostPort `json:"upstream" env:"DOMAINLOOKUP_UPSTREAM"`
	Patterns []string          `json:"patterns" env:"DOMAINLOOKUP_PATTERNS"`
	Files    []flagutil.Path   `json:"files" env:"DOMAINLOOKUP_FILES"`
}

// ParseConfigFile reads a YAML config, layers environment overrides on
// top and fills in defaults.
func ParseConfigFile(path flagutil.Path) (*Config, error) {
	s, err := path.ExpandUser()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ParseConfig(f, os.Environ())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	c.Path = flagutil.Path(s)
	return c, nil
}

// ParseConfig decodes YAML from r and applies overrides from environ.
func ParseConfig(r io.Reader, environ []string) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var c Config
	if err = yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	if err = env.Unmarshal(&c, environ); err != nil {
		return nil, err
	}

	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	return &c, nil
}

// Compile builds a trie from the inline patterns and the list files.
func (c *Config) Compile(ctx context.Context) (*domaintrie.Trie, error) {
	return Compile(ctx, c.Patterns, c.Files)
}
