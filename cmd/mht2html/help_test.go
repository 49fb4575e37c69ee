package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	out := buf.String()

	wants := []string{
		"Usage: mht2html <mht_path> <output_path>",
		"--dir",
		"--work",
		"--config",
		"--placeholder",
		"--selector",
		"--no-progress",
		"--quiet",
		"--verbose",
		"--version",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("usage missing %q", want)
		}
	}
}
