package ports

import (
	"context"
	"io"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	SaveExtraction(ctx context.Context, id string, fullText string, chunks []domain.Chunk) error
	SaveSummary(ctx context.Context, id string, summary string) error
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits extracted text into overlapping windows.
type Chunker interface {
	Split(text string) []string
}

// CompleteOptions bound a single summarizer call.
type CompleteOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Summarizer is the external generative-language capability. A terminal
// failure is always distinguishable from a successful (possibly empty)
// response; retry policy lives behind this interface, not in front of it.
type Summarizer interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

// ChatSessionStore keeps bounded per-session conversation history.
type ChatSessionStore interface {
	History(sessionID string) []domain.Exchange
	Append(sessionID string, exchange domain.Exchange)
}
