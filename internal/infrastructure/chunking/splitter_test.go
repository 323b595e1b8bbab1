package chunking

import (
	"strings"
	"testing"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			b.WriteString(chunk)
			continue
		}
		runes := []rune(chunk)
		if len(runes) > overlap {
			b.WriteString(string(runes[overlap:]))
		}
	}
	return b.String()
}

func TestNewSplitterRejectsInvalidParams(t *testing.T) {
	cases := []struct {
		name    string
		window  int
		overlap int
	}{
		{"zero window", 0, 0},
		{"negative window", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equals window", 100, 100},
		{"overlap above window", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSplitter(tc.window, tc.overlap); !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("NewSplitter(%d, %d) error = %v, want ErrInvalidInput", tc.window, tc.overlap, err)
			}
		})
	}
}

func TestSplitEmptyTextReturnsNoChunks(t *testing.T) {
	s, err := NewSplitter(100, 20)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplitShortTextReturnsSingleChunk(t *testing.T) {
	s, err := NewSplitter(100, 20)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	chunks := s.Split("short text")
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("expected single chunk equal to input, got %#v", chunks)
	}
}

func TestSplitCoverageAndSizeBound(t *testing.T) {
	cases := []struct {
		name    string
		textLen int
		window  int
		overlap int
	}{
		{"exact multiple", 900, 300, 0},
		{"with overlap", 1000, 300, 50},
		{"tail shorter than window", 777, 250, 100},
		{"window larger than text", 40, 250, 100},
		{"single rune step", 30, 5, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Repeat("abcdefghij", tc.textLen/10+1)[:tc.textLen]
			s, err := NewSplitter(tc.window, tc.overlap)
			if err != nil {
				t.Fatalf("NewSplitter() error = %v", err)
			}
			chunks := s.Split(text)
			for i, chunk := range chunks {
				if len([]rune(chunk)) > tc.window {
					t.Fatalf("chunk %d exceeds window: %d > %d", i, len(chunk), tc.window)
				}
			}
			if got := reassemble(chunks, tc.overlap); got != text {
				t.Fatalf("overlap-trimmed concatenation does not reproduce input (len %d vs %d)", len(got), len(text))
			}
		})
	}
}

func TestSplitDocumentScenario(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)[:9000]
	s, err := NewSplitter(2500, 200)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	chunks := s.Split(text)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks for 9000 chars at window=2500 overlap=200, got %d", len(chunks))
	}
	for i, want := range []int{2500, 2500, 2500} {
		if len(chunks[i]) != want {
			t.Fatalf("chunk %d length = %d, want %d", i, len(chunks[i]), want)
		}
	}
	if len(chunks[3]) > 2500 {
		t.Fatalf("final chunk length = %d, want <= 2500", len(chunks[3]))
	}
	if got := reassemble(chunks, 200); got != text {
		t.Fatalf("reassembled text does not match original")
	}
}

func TestSplitPreservesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("привет мир ", 50)
	s, err := NewSplitter(64, 16)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	if got := reassemble(s.Split(text), 16); got != text {
		t.Fatalf("multibyte reassembly mismatch")
	}
}
