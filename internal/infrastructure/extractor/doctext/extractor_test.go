package doctext

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

type storageFake struct {
	objects map[string][]byte
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[key])), nil
}

func extractorFor(payload []byte) (*Extractor, *domain.Document) {
	storage := &storageFake{objects: map[string][]byte{"stored-key": payload}}
	doc := &domain.Document{
		ID:               "doc-1",
		OriginalFilename: "upload.bin",
		StoredFilename:   "stored-key",
	}
	return NewExtractor(storage), doc
}

func TestExtractPlainText(t *testing.T) {
	ex, doc := extractorFor([]byte("  hello plain world\n"))
	text, err := ex.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "hello plain world" {
		t.Fatalf("Extract() = %q", text)
	}
}

func TestExtractEmptyPayload(t *testing.T) {
	ex, doc := extractorFor(nil)
	text, err := ex.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("Extract() = %q, want empty", text)
	}
}

func TestExtractRejectsUnknownBinary(t *testing.T) {
	ex, doc := extractorFor([]byte{0x00, 0xFF, 0x00, 0xFE, 0x01})
	_, err := ex.Extract(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDocxParagraphs(t *testing.T) {
	payload := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>first paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	ex, doc := extractorFor(payload)
	text, err := ex.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "first paragraph") || !strings.Contains(text, "second paragraph") {
		t.Fatalf("Extract() = %q, want both paragraphs", text)
	}
	if strings.Contains(text, "<w:") {
		t.Fatalf("xml markup leaked into extracted text: %q", text)
	}
}

func TestExtractDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	ex, doc := extractorFor(buf.Bytes())
	_, err = ex.Extract(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for opaque zip, got %v", err)
	}
}

func TestExtractXlsxRows(t *testing.T) {
	book := excelize.NewFile()
	if err := book.SetSheetRow("Sheet1", "A1", &[]any{"quarter", "revenue"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := book.SetSheetRow("Sheet1", "A2", &[]any{"Q1", 1200}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	ex, doc := extractorFor(buf.Bytes())
	text, err := ex.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "quarter revenue") {
		t.Fatalf("Extract() = %q, want header row", text)
	}
	if !strings.Contains(text, "Q1 1200") {
		t.Fatalf("Extract() = %q, want data row", text)
	}
}
