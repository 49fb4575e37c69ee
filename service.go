package mht2html

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Service orchestrates the MHT-to-HTML pipeline.
type Service struct {
	cfg serviceConfig
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithWorkers).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			workers:        DefaultWorkers,
			placeholder:    DefaultPlaceholder,
			recordSelector: DefaultRecordSelector,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Convert runs the full pipeline: parse the archive, fill blank records,
// hoist inline styles, extract resources in parallel, rewrite references,
// and serialize. Fatal errors (unparseable archive, no HTML root) return
// an error and write nothing; per-resource failures are collected in
// Result.Warnings.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	input = normalizeDefaults(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	arch, err := ParseArchive(bytes.NewReader(input.Archive))
	if err != nil {
		return nil, err
	}

	root := arch.Root()
	if root.DecodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, root.DecodeErr)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(root.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := &Result{}

	// Blank records are detected through the inline style attribute, so
	// this must run before style normalization removes those attributes.
	result.BlankFilled = fillBlankRecords(doc, s.cfg.recordSelector, s.cfg.placeholder)

	sheet := newStyleSheet()
	normalizeStyles(doc, sheet)
	result.StyleRules = sheet.len()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ext := &extractor{
		resourceAbs: filepath.Join(input.OutputDir, filepath.FromSlash(input.ResourceDir)),
		resourceRel: input.ResourceDir,
		workers:     s.cfg.workers,
		progress:    s.cfg.progress,
	}
	resources, resMap, warnings := ext.run(ctx, arch.Resources())
	result.Resources = resources
	result.Warnings = warnings
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result.Warnings = append(result.Warnings, rewriteReferences(doc, resMap)...)
	result.Warnings = append(result.Warnings, rewriteRuleURLs(sheet, resMap)...)

	insertStylesheet(doc, sheet.css())
	rewriteCharsetMeta(doc)

	// A surviving <base> would re-anchor the relative resource paths.
	doc.Find("base").Remove()

	htmlOut, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	result.HTML = []byte(htmlOut)
	return result, nil
}

// validateInput rejects inputs the pipeline cannot act on.
func validateInput(input Input) error {
	if len(input.Archive) == 0 {
		return ErrEmptyArchive
	}
	if strings.HasPrefix(input.ResourceDir, "/") || strings.Contains(input.ResourceDir, "..") {
		return fmt.Errorf("%w: %q must be a relative path inside the output directory", ErrInvalidResourceDir, input.ResourceDir)
	}
	return nil
}

// rewriteCharsetMeta forces any charset declaration to UTF-8: the root
// part was transcoded during parsing and the document is serialized as
// UTF-8, so a surviving legacy declaration (commonly gb2312) would make
// browsers mis-render the output.
func rewriteCharsetMeta(doc *goquery.Document) {
	doc.Find("meta[charset]").SetAttr("charset", "utf-8")
	doc.Find("meta[http-equiv]").Each(func(_ int, sel *goquery.Selection) {
		equiv, _ := sel.Attr("http-equiv")
		if !strings.EqualFold(equiv, "content-type") {
			return
		}
		sel.SetAttr("content", "text/html; charset=utf-8")
	})
}

// normalizeDefaults fills unset Input fields with their defaults.
func normalizeDefaults(input Input) Input {
	if input.OutputDir == "" {
		input.OutputDir = "."
	}
	if input.ResourceDir == "" {
		input.ResourceDir = DefaultResourceDir
	}
	return input
}
