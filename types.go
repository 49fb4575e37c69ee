package mht2html

import (
	"fmt"
	"strings"
)

// Defaults applied by New when no option overrides them.
const (
	// DefaultWorkers is the extraction worker pool size.
	DefaultWorkers = 4

	// DefaultResourceDir is the directory (relative to the output
	// directory) that extracted resources are written to.
	DefaultResourceDir = "images"

	// DefaultPlaceholder is the text inserted into blank transcript
	// records so they are not rendered as visually empty.
	DefaultPlaceholder = "[no content]"

	// DefaultRecordSelector matches one transcript message record. The
	// default targets the indented message container emitted by QQ chat
	// exports; override it for other transcript layouts.
	DefaultRecordSelector = `div[style='padding-left:20px;']`
)

// classPrefix is the prefix for generated CSS class names.
const classPrefix = "i-style-"

// Input contains conversion parameters.
type Input struct {
	Archive     []byte // raw MHT bytes (required)
	OutputDir   string // directory the HTML file will live in (default ".")
	ResourceDir string // resource subdirectory (default DefaultResourceDir)
}

// Resource describes one extracted archive part.
type Resource struct {
	ContentID       string // content identifier without angle brackets ("" if absent)
	ContentLocation string
	Path            string // path relative to the output directory, forward slashes
	Size            int    // decoded payload size in bytes
	Reused          bool   // payload was byte-identical to an earlier part; no second write
}

// WarningKind classifies non-fatal conversion problems.
type WarningKind string

// Warning kinds, one per non-fatal error class.
const (
	WarnUnsupportedEncoding WarningKind = "unsupported-encoding"
	WarnResourceWrite       WarningKind = "resource-write"
	WarnUnresolvedReference WarningKind = "unresolved-reference"
)

// Warning records a non-fatal problem encountered during conversion.
// Warnings accumulate in Result.Warnings; they never abort the run.
type Warning struct {
	Kind WarningKind
	Ref  string // part identity or the unresolved reference value
	Err  error  // underlying cause, nil for unresolved references
}

// String formats the warning for user-facing output.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	if w.Ref != "" {
		b.WriteString(" ")
		b.WriteString(w.Ref)
	}
	if w.Err != nil {
		fmt.Fprintf(&b, ": %v", w.Err)
	}
	return b.String()
}

// Result contains the conversion output.
type Result struct {
	HTML        []byte     // serialized document, UTF-8
	Resources   []Resource // successfully extracted parts, archive order
	Warnings    []Warning  // non-fatal problems, in occurrence order
	BlankFilled int        // records rewritten with the placeholder
	StyleRules  int        // distinct inline styles hoisted into the stylesheet
}

// ResourceEvent reports progress of one extraction task.
// Events may be delivered from multiple goroutines.
type ResourceEvent struct {
	Done  int    // completed tasks so far, including this one
	Total int    // total resource parts in the archive
	Path  string // relative output path ("" if the part was skipped)
	Err   error  // non-nil if this part failed
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	workers        int
	placeholder    string
	recordSelector string
	progress       func(ResourceEvent)
}

// WithWorkers sets the extraction worker pool size.
// Values below 1 fall back to a single worker.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = 1
		}
		s.cfg.workers = n
	}
}

// WithPlaceholder sets the text inserted into blank transcript records.
// An empty string disables blank-record filling.
func WithPlaceholder(text string) Option {
	return func(s *Service) {
		s.cfg.placeholder = text
	}
}

// WithRecordSelector sets the CSS selector that matches one transcript
// message record. Panics on an empty selector (programmer error).
func WithRecordSelector(selector string) Option {
	if selector == "" {
		panic("mht2html: WithRecordSelector selector must not be empty")
	}
	return func(s *Service) {
		s.cfg.recordSelector = selector
	}
}

// WithProgress registers a callback invoked once per resource part as
// extraction completes. The callback must be safe for concurrent use.
func WithProgress(fn func(ResourceEvent)) Option {
	return func(s *Service) {
		s.cfg.progress = fn
	}
}
