package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/gilliginsisland/domainlookup/pkg/dnsfilter"
	"github.com/gilliginsisland/domainlookup/pkg/flagutil"
	"github.com/gilliginsisland/domainlookup/pkg/ruleset"
)

func init() {
	parser.AddCommand("serve", "Run the DNS filter", "Answer NXDOMAIN for matched names and forward the rest upstream", &ServeCmd{})
}

var _ flags.Commander = (*ServeCmd)(nil)

type ServeCmd struct {
	Sources

	ListenAddr flagutil.HostPort `short:"l" long:"listen" description:"Listening address (default from config, else 127.0.0.1:5353)"`
	Upstream   flagutil.HostPort `short:"u" long:"upstream" description:"Upstream resolver for unmatched names"`
}

// Execute runs the filter until SIGINT or SIGTERM.
func (c *ServeCmd) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := c.Config()
	if err != nil {
		return err
	}
	switch {
	case c.ListenAddr != "":
		cfg.Listen = c.ListenAddr
	case cfg.Listen == "":
		cfg.Listen = ruleset.DefaultListen
	}
	if c.Upstream != "" {
		cfg.Upstream = c.Upstream
	}

	t, err := cfg.Compile(ctx)
	if err != nil {
		return err
	}

	h := &dnsfilter.Handler{
		Trie:     t,
		Upstream: cfg.Upstream.String(),
	}

	err = dnsfilter.ListenAndServe(ctx, cfg.Listen.String(), h)
	total, blocked := h.Stats()
	slog.Info("DNS filter stopped", "queries", total, "blocked", blocked)
	return err
}
