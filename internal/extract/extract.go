// Package extract converts attachment binaries into plain text. The actual
// parsing is delegated to the docconv library; this package only adapts it
// behind a small interface and bounds the output size.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"code.sajari.com/docconv"
)

// ErrExtraction indicates the content extractor could not produce text for
// an attachment. The attachment is skipped; the issue is still loaded.
var ErrExtraction = errors.New("content extraction failed")

// Extractor turns an attachment's raw bytes into plain text. contentType
// is the MIME type reported by the tracker and may be empty; filename is
// always available and used as a fallback type hint.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType, filename string) (string, error)
}

// DocconvExtractor extracts text using docconv's format converters
// (PDF, Office formats, HTML, plain text, and friends).
type DocconvExtractor struct{}

// NewDocconvExtractor returns the default docconv-backed extractor.
func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

// Extract converts data to plain text. When the tracker did not report a
// content type, the type is sniffed from the filename extension.
func (e *DocconvExtractor) Extract(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mimeType := contentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = docconv.MimeTypeByExtension(filename)
	}

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("convert %q (%s): %v: %w", filename, mimeType, err, ErrExtraction)
	}
	return res.Body, nil
}

// Truncate bounds s to at most max runes, so multi-byte text is never cut
// mid-character. Non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
