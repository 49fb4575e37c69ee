package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	mht2html "github.com/5ime/mht2html"
	"github.com/5ime/mht2html/internal/config"
	"github.com/5ime/mht2html/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("mht2html %s\n", Version)
		os.Exit(ExitSuccess)
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	env := DefaultEnv()
	if err := runConvert(context.Background(), args, flags, env); err != nil {
		fmt.Fprintf(os.Stderr, "%v%s\n", err, hintFor(err))
		os.Exit(exitCodeFor(err))
	}
}

// hintFor returns an actionable hint for errors users can fix themselves.
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		var paths []string
		if dir, derr := os.UserConfigDir(); derr == nil {
			paths = append(paths, filepath.Join(dir, "mht2html", "config.yaml"))
		}
		return hints.ForConfigNotFound(paths)
	case errors.Is(err, mht2html.ErrMalformedArchive):
		return hints.ForMalformedArchive()
	case errors.Is(err, mht2html.ErrNoHTMLPart):
		return hints.ForNoHTMLPart()
	case errors.Is(err, ErrWriteHTML):
		return hints.ForOutputDirectory()
	}
	return ""
}
