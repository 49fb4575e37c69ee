package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the converter.
type cliFlags struct {
	dir         string // resource directory name
	work        int    // extraction workers (0 = auto)
	config      string // config file name or path
	placeholder string // blank-record placeholder text
	selector    string // transcript record selector
	quiet       bool
	verbose     bool
	noProgress  bool
	version     bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mht2html", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.dir, "dir", "d", "", "resource directory name (default \"images\")")
	fs.IntVarP(&f.work, "work", "w", 0, "extraction workers (0 = auto)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.placeholder, "placeholder", "", "text inserted into blank records")
	fs.StringVar(&f.selector, "selector", "", "CSS selector matching one transcript record")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")
	fs.BoolVar(&f.version, "version", false, "show version information")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
