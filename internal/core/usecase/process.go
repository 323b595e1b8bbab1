package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lokeshch/document-assistant/internal/core/domain"
	"github.com/lokeshch/document-assistant/internal/core/ports"
)

// minUsableTextLen rejects documents whose extraction produced nothing a
// summarizer could work with (scanned images, empty files).
const minUsableTextLen = 30

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	chunker    ports.Chunker
	summarizer *IterativeSummarizer
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	summarizer *IterativeSummarizer,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		chunker:    chunker,
		summarizer: summarizer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return err
	}

	chunks, err := uc.chunk(text)
	if err != nil {
		return err
	}

	if err := uc.repo.SaveExtraction(ctx, doc.ID, text, chunks); err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}

	// Summarization failure is soft: the document stays queryable, retrieval
	// falls back to the raw text prefix when the summary is empty.
	summary := uc.summarize(ctx, chunks)
	if err := uc.repo.SaveSummary(ctx, doc.ID, summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if len(text) < minUsableTextLen {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
			fmt.Errorf("extracted text too short: %d chars", len(text)))
	}
	return text, nil
}

func (uc *ProcessDocumentUseCase) chunk(text string) ([]domain.Chunk, error) {
	pieces := uc.chunker.Split(text)
	if len(pieces) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{Index: i, Text: piece}
	}
	return chunks, nil
}

func (uc *ProcessDocumentUseCase) summarize(ctx context.Context, chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	summary, err := uc.summarizer.Summarize(ctx, texts)
	if err != nil {
		slog.Warn("summarization_failed", "error", err)
		return ""
	}
	if summary == "" {
		slog.Warn("summarization_empty", "chunks", len(chunks))
	}
	return summary
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
