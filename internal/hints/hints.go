// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/mht2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/mht2html) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/mht2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMalformedArchive returns hints for archives that fail to parse.
func ForMalformedArchive() string {
	return formatHints([]string{
		"the input may not be an MHT/MHTML export",
		"re-save the transcript from the chat client and retry",
	})
}

// ForNoHTMLPart returns a hint for archives without a document part.
func ForNoHTMLPart() string {
	return format("the archive contains only attachments; export the full transcript instead")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
