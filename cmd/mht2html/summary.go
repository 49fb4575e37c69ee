package main

import (
	"time"

	"github.com/pterm/pterm"

	mht2html "github.com/5ime/mht2html"
)

// printSummary reports the outcome of a conversion. Warnings always go to
// stderr (even with --quiet the run still exits 0); everything else
// respects the quiet/verbose flags.
func printSummary(result *mht2html.Result, outputPath string, elapsed time.Duration, flags *cliFlags, env *Environment) {
	for _, w := range result.Warnings {
		pterm.Warning.WithWriter(env.Stderr).Println(w.String())
	}

	if flags.quiet {
		return
	}

	if flags.verbose {
		info := pterm.Info.WithWriter(env.Stdout)
		info.Printfln("Resources extracted: %d", len(result.Resources))
		info.Printfln("Style rules hoisted: %d", result.StyleRules)
		info.Printfln("Blank records filled: %d", result.BlankFilled)
		info.Printfln("Duration: %v", elapsed.Round(time.Millisecond))
	}

	if n := len(result.Warnings); n > 0 {
		pterm.Warning.WithWriter(env.Stdout).Printfln("Completed with %d warning(s)", n)
	}
	pterm.Success.WithWriter(env.Stdout).Printfln("Created %s", outputPath)
}
