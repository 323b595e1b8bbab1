package doctext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lokeshch/document-assistant/internal/core/domain"
	"github.com/lokeshch/document-assistant/internal/core/ports"
)

// Extractor reads the stored upload and pulls plain text out of it.
// The on-disk bytes decide the format; the declared MIME type and the
// filename extension are only consulted when sniffing is inconclusive.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoredFilename)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	text, err := extractBytes(raw, doc.MimeType, doc.OriginalFilename)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func extractBytes(raw []byte, mimeType, filename string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	switch {
	case isPDF(raw):
		return extractPDF(raw)
	case isZip(raw):
		switch detectOpenXMLKind(raw) {
		case kindDOCX:
			return extractDOCX(raw)
		case kindXLSX:
			return extractXLSX(raw)
		default:
			return "", domain.WrapError(domain.ErrUnsupportedFormat, "zip container", fmt.Errorf("no readable payload in %s", filename))
		}
	case utf8.Valid(raw):
		return string(raw), nil
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "binary payload", fmt.Errorf("file %s declared as %s", filename, mimeType))
	}
}

func isPDF(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte("%PDF-"))
}

func isZip(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{'P', 'K', 0x03, 0x04})
}
