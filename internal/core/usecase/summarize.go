package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lokeshch/document-assistant/internal/core/ports"
)

const fallbackSummaryChunks = 3

// IterativeSummarizer produces one coherent summary of an arbitrarily long
// document: each chunk is summarized independently (map), then the partial
// summaries are combined and compressed in a single pass (reduce). Per-chunk
// failures are skipped, not fatal; retries belong to the Summarizer
// implementation, not here.
type IterativeSummarizer struct {
	summarizer      ports.Summarizer
	perChunkTokens  int
	combinedTokens  int
	summaryTemp     float64
}

func NewIterativeSummarizer(summarizer ports.Summarizer, perChunkTokens, combinedTokens int) *IterativeSummarizer {
	if perChunkTokens <= 0 {
		perChunkTokens = 400
	}
	if combinedTokens <= 0 {
		combinedTokens = 500
	}
	return &IterativeSummarizer{
		summarizer:     summarizer,
		perChunkTokens: perChunkTokens,
		combinedTokens: combinedTokens,
		summaryTemp:    0.2,
	}
}

// Summarize returns the combined summary. An empty result with a nil error
// means every chunk-level call failed: the caller stores the document without
// a usable summary rather than failing the upload.
func (s *IterativeSummarizer) Summarize(ctx context.Context, chunks []string) (string, error) {
	chunkSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			// Out of time: keep whatever partial work exists.
			break
		}

		summary, err := s.summarizer.Complete(ctx, buildChunkSummaryPrompt(chunk), ports.CompleteOptions{
			Temperature:     s.summaryTemp,
			MaxOutputTokens: s.perChunkTokens,
		})
		if err != nil {
			slog.Warn("chunk_summary_failed", "chunk_index", i, "error", err)
			continue
		}
		if summary = strings.TrimSpace(summary); summary != "" {
			chunkSummaries = append(chunkSummaries, summary)
		}
	}

	if len(chunkSummaries) == 0 {
		return "", nil
	}

	combined, err := s.summarizer.Complete(ctx, buildCombinePrompt(chunkSummaries), ports.CompleteOptions{
		Temperature:     s.summaryTemp,
		MaxOutputTokens: s.combinedTokens,
	})
	if err != nil || strings.TrimSpace(combined) == "" {
		if err != nil {
			slog.Warn("combine_summaries_failed", "chunk_summaries", len(chunkSummaries), "error", err)
		}
		return fallbackSummary(chunkSummaries), nil
	}
	return strings.TrimSpace(combined), nil
}

func fallbackSummary(chunkSummaries []string) string {
	n := len(chunkSummaries)
	if n > fallbackSummaryChunks {
		n = fallbackSummaryChunks
	}
	return strings.Join(chunkSummaries[:n], "\n\n")
}
