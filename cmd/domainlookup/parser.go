package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gilliginsisland/domainlookup/pkg/flagutil"
)

var opts struct {
	LogLevel  flagutil.LogLevel  `short:"v" long:"verbosity" description:"Log level (debug, info, warn, error)" default:"warn"`
	LogFormat flagutil.LogFormat `long:"log-format" description:"Log output format" choice:"json" choice:"text" default:"json"`
}

var parser = flags.NewParser(&opts, flags.Default)

// stdout receives command results; logs go to stderr.
var stdout io.Writer = os.Stdout

func init() {
	parser.CommandHandler = handleCommand
}

// handleCommand installs the logger selected by the global flags
// before any command runs.
func handleCommand(cmd flags.Commander, args []string) error {
	slog.SetDefault(opts.LogFormat.Logger(os.Stderr, opts.LogLevel))
	slog.Debug("Running command", "command", fmt.Sprintf("%T", cmd), "args", args)
	return cmd.Execute(args)
}
