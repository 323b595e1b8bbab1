package chunking

import (
	"fmt"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

// Splitter cuts text into fixed-size windows that overlap by Overlap runes,
// so no downstream summarization call sees more than WindowSize runes and
// boundary context is never lost. Windows are exact substrings: dropping the
// first Overlap runes of every window but the first and concatenating
// reproduces the input.
type Splitter struct {
	WindowSize int
	Overlap    int
}

func NewSplitter(windowSize, overlap int) (*Splitter, error) {
	if windowSize <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new splitter",
			fmt.Errorf("window size must be positive, got %d", windowSize))
	}
	if overlap < 0 || overlap >= windowSize {
		return nil, domain.WrapError(domain.ErrInvalidInput, "new splitter",
			fmt.Errorf("overlap must satisfy 0 <= overlap < window size, got overlap=%d window=%d", overlap, windowSize))
	}
	return &Splitter{
		WindowSize: windowSize,
		Overlap:    overlap,
	}, nil
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.WindowSize - s.Overlap
	if step <= 0 {
		// Unreachable through NewSplitter; keeps a hand-built Splitter from looping.
		step = s.WindowSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.WindowSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
