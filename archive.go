package mht2html

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/net/html/charset"
)

// Transfer encodings recognized in part headers. Anything else fails the
// part with ErrUnsupportedEncoding.
const (
	encodingBase64          = "base64"
	encodingQuotedPrintable = "quoted-printable"
	encoding7Bit            = "7bit"
	encoding8Bit            = "8bit"
	encodingBinary          = "binary"
)

// Part is one decoded section of an MHT archive. Parts are immutable once
// parsed.
type Part struct {
	Index            int
	ContentID        string // without angle brackets, "" if the header is absent
	ContentLocation  string
	ContentType      string // media type without parameters
	TransferEncoding string
	Body             []byte // decoded payload, nil when DecodeErr is set
	DecodeErr        error  // non-nil if the payload could not be decoded
}

// IsHTML reports whether the part holds an HTML document.
func (p *Part) IsHTML() bool {
	return p.ContentType == "text/html"
}

// Identity returns a human-readable identifier for error reporting:
// the content ID if present, else the content location, else the index.
func (p *Part) Identity() string {
	if p.ContentID != "" {
		return p.ContentID
	}
	if p.ContentLocation != "" {
		return p.ContentLocation
	}
	return fmt.Sprintf("part %d", p.Index)
}

// Archive is a parsed MHT container.
type Archive struct {
	Parts []Part
	root  int // index into Parts of the HTML root
}

// Root returns the HTML root part.
func (a *Archive) Root() *Part {
	return &a.Parts[a.root]
}

// Resources returns every part except the HTML root, in archive order.
func (a *Archive) Resources() []Part {
	res := make([]Part, 0, len(a.Parts)-1)
	for i := range a.Parts {
		if i != a.root {
			res = append(res, a.Parts[i])
		}
	}
	return res
}

// ParseArchive decodes an MHT container into its parts and identifies the
// HTML root. It returns ErrMalformedArchive if the container has no
// multipart boundary or cannot be read, and ErrNoHTMLPart if no text/html
// part exists. A part whose transfer encoding cannot be decoded is kept
// with DecodeErr set; that is not fatal here.
func ParseArchive(r io.Reader) (*Archive, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid content type: %v", ErrMalformedArchive, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("%w: top-level content type %q is not multipart", ErrMalformedArchive, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary declaration", ErrMalformedArchive)
	}

	a := &Archive{root: -1}
	if err := a.readParts(msg.Body, boundary); err != nil {
		return nil, err
	}
	if len(a.Parts) == 0 {
		return nil, fmt.Errorf("%w: container has no parts", ErrMalformedArchive)
	}

	a.pickRoot(params["start"])
	if a.root < 0 {
		return nil, ErrNoHTMLPart
	}
	return a, nil
}

// readParts walks one multipart body, recursing into nested multipart
// sections, and appends decoded parts to the archive.
func (a *Archive) readParts(body io.Reader, boundary string) error {
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading part: %v", ErrMalformedArchive, err)
		}

		raw, err := io.ReadAll(part)
		if err != nil {
			return fmt.Errorf("%w: reading part payload: %v", ErrMalformedArchive, err)
		}

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "text/plain"
		}
		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			mediaType = "application/octet-stream"
			params = nil
		}

		encoding := strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")))

		// Nested containers contribute their children, not themselves.
		if strings.HasPrefix(mediaType, "multipart/") {
			if nested := params["boundary"]; nested != "" {
				if err := a.readParts(bytes.NewReader(raw), nested); err != nil {
					return err
				}
			}
			continue
		}

		p := Part{
			Index:            len(a.Parts),
			ContentID:        strings.Trim(part.Header.Get("Content-ID"), "<>"),
			ContentLocation:  part.Header.Get("Content-Location"),
			ContentType:      mediaType,
			TransferEncoding: encoding,
		}

		decoded, err := decodeTransferEncoding(raw, encoding)
		if err != nil {
			p.DecodeErr = err
		} else if mediaType == "text/html" {
			p.Body = decodeCharset(decoded, params["charset"])
		} else {
			p.Body = decoded
		}

		a.Parts = append(a.Parts, p)
	}
}

// pickRoot selects the HTML root part: the part named by the container's
// start parameter when it is HTML, otherwise the first text/html part.
func (a *Archive) pickRoot(start string) {
	start = strings.Trim(start, "<>")
	for i := range a.Parts {
		if !a.Parts[i].IsHTML() {
			continue
		}
		if a.root < 0 {
			a.root = i
		}
		if start != "" && a.Parts[i].ContentID == start {
			a.root = i
			return
		}
	}
}

// decodeTransferEncoding converts a part payload to its final bytes.
func decodeTransferEncoding(raw []byte, encoding string) ([]byte, error) {
	switch encoding {
	case encodingBase64:
		return decodeBase64(raw)
	case encodingQuotedPrintable:
		decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(raw)))
		if err != nil {
			// Archived transcripts frequently carry slightly malformed
			// quoted-printable; keep whatever decoded cleanly.
			if len(decoded) > 0 {
				return decoded, nil
			}
			return nil, fmt.Errorf("%w: quoted-printable: %v", ErrUnsupportedEncoding, err)
		}
		return decoded, nil
	case encoding7Bit, encoding8Bit, encodingBinary, "":
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// decodeBase64 decodes a base64 payload, tolerating line breaks and
// missing padding.
func decodeBase64(raw []byte) ([]byte, error) {
	compact := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			compact = append(compact, b)
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(string(compact))
	if err == nil {
		return decoded, nil
	}
	decoded, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(string(compact), "="))
	if rawErr == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: base64: %v", ErrUnsupportedEncoding, err)
}

// decodeCharset transcodes an HTML payload to UTF-8 using the charset
// declared in the part's content type. Unknown or missing charsets leave
// the payload unchanged; chat exports are commonly GBK, which the charset
// registry handles.
func decodeCharset(body []byte, label string) []byte {
	if label == "" || strings.EqualFold(label, "utf-8") {
		return body
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
