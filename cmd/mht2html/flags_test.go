package main

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseFlags - flag parsing and positional args
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		flags, args, err := parseFlags([]string{"in.mht", "out.html"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if len(args) != 2 || args[0] != "in.mht" || args[1] != "out.html" {
			t.Errorf("args = %v", args)
		}
		if *flags != (cliFlags{}) {
			t.Errorf("flags = %+v, want zero values", flags)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()

		flags, args, err := parseFlags([]string{
			"--dir", "assets",
			"--work", "8",
			"--config", "conv.yaml",
			"--placeholder", "[empty]",
			"--selector", "div.msg",
			"--quiet",
			"--verbose",
			"--no-progress",
			"in.mht", "out.html",
		})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		want := cliFlags{
			dir: "assets", work: 8, config: "conv.yaml",
			placeholder: "[empty]", selector: "div.msg",
			quiet: true, verbose: true, noProgress: true,
		}
		if *flags != want {
			t.Errorf("flags = %+v, want %+v", flags, want)
		}
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("short flags", func(t *testing.T) {
		t.Parallel()

		flags, _, err := parseFlags([]string{"-d", "assets", "-w", "2", "-c", "x.yaml", "-q", "in", "out"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if flags.dir != "assets" || flags.work != 2 || flags.config != "x.yaml" || !flags.quiet {
			t.Errorf("flags = %+v", flags)
		}
	})

	t.Run("version flag", func(t *testing.T) {
		t.Parallel()

		flags, _, err := parseFlags([]string{"--version"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if !flags.version {
			t.Error("version flag not set")
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseFlags([]string{"--bogus"}); err == nil {
			t.Error("parseFlags() = nil, want error for unknown flag")
		}
	})

	t.Run("flags after positionals", func(t *testing.T) {
		t.Parallel()

		// pflag interleaves flags and positional arguments.
		flags, args, err := parseFlags([]string{"in.mht", "out.html", "--quiet"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if !flags.quiet {
			t.Error("trailing flag not parsed")
		}
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})
}
