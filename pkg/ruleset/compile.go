// Package ruleset loads domain patterns from config and list files
// into a domaintrie.Trie.
package ruleset

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/gilliginsisland/domainlookup/pkg/dnsname"
	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
	"github.com/gilliginsisland/domainlookup/pkg/flagutil"
)

// Compile reads every file concurrently, then inserts the inline
// patterns followed by the file entries in order. The first invalid
// pattern aborts the build.
func Compile(ctx context.Context, patterns []string, files []flagutil.Path) (*domaintrie.Trie, error) {
	lists := make([][]Entry, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := readListFile(path)
			if err != nil {
				return err
			}
			lists[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := domaintrie.New()
	for _, p := range patterns {
		if err := t.Insert(dnsname.Pattern(p)); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	n := len(patterns)
	for i, entries := range lists {
		for _, e := range entries {
			if err := t.Insert(e.Pattern); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", files[i], e.Line, err)
			}
		}
		n += len(entries)
		slog.Debug("Loaded pattern list", "path", files[i].String(), "patterns", len(entries))
	}

	slog.Info("Compiled domain trie", "patterns", n, "files", len(files))
	return t, nil
}

func readListFile(path flagutil.Path) ([]Entry, error) {
	f, err := os.Open(path.String())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
