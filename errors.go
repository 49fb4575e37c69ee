package mht2html

import "errors"

// Sentinel errors for library operations.
var (
	// Fatal: the archive container could not be parsed at all.
	ErrMalformedArchive = errors.New("malformed archive")

	// Fatal: the archive parsed but contains no text/html root part.
	ErrNoHTMLPart = errors.New("archive has no HTML part")

	// Fatal: the root part could not be parsed as HTML.
	ErrMalformedDocument = errors.New("malformed HTML document")

	// Per-part: the declared transfer encoding is not supported.
	// The part is skipped; references to it stay unrewritten.
	ErrUnsupportedEncoding = errors.New("unsupported transfer encoding")

	// Per-part: writing an extracted resource to disk failed.
	ErrResourceWrite = errors.New("failed to write resource")

	// Per-reference: a cid: URI has no matching archive part.
	ErrUnresolvedReference = errors.New("unresolved resource reference")

	// Input validation errors.
	ErrEmptyArchive       = errors.New("archive content cannot be empty")
	ErrInvalidResourceDir = errors.New("invalid resource directory")
)
