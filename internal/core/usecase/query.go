package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lokeshch/document-assistant/internal/core/domain"
	"github.com/lokeshch/document-assistant/internal/core/ports"
)

const (
	defaultTopChunks  = 4
	fallbackPrefixLen = 2000
	answerTokenBudget = 500
	answerTemperature = 0.2
)

// QueryUseCase answers a question about one stored document, grounding the
// answer strictly in retrieved chunks to keep the model from inventing
// content that is not in the document.
type QueryUseCase struct {
	repo       ports.DocumentRepository
	summarizer ports.Summarizer
	sessions   ports.ChatSessionStore
	topChunks  int
}

func NewQueryUseCase(
	repo ports.DocumentRepository,
	summarizer ports.Summarizer,
	sessions ports.ChatSessionStore,
	topChunks int,
) *QueryUseCase {
	if topChunks <= 0 {
		topChunks = defaultTopChunks
	}
	return &QueryUseCase{
		repo:       repo,
		summarizer: summarizer,
		sessions:   sessions,
		topChunks:  topChunks,
	}
}

func (uc *QueryUseCase) Answer(ctx context.Context, documentID, question, sessionID string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer question", errors.New("question is empty"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	// A document that has not finished processing has no chunks or summary
	// to ground an answer in.
	if doc.Status != domain.StatusReady {
		return nil, domain.WrapError(domain.ErrDocumentNotReady, "answer question",
			fmt.Errorf("document status is %s", doc.Status))
	}

	top := uc.selectChunks(doc, question)
	contextText := buildContext(doc, top)

	var history []domain.Exchange
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if uc.sessions != nil {
		history = uc.sessions.History(sessionID)
	}

	answer, err := uc.summarizer.Complete(ctx, buildAnswerPrompt(contextText, question, history), ports.CompleteOptions{
		Temperature:     answerTemperature,
		MaxOutputTokens: answerTokenBudget,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrNoAnswer, "answer question", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, domain.WrapError(domain.ErrNoAnswer, "answer question", errors.New("summarizer returned empty response"))
	}

	if uc.sessions != nil {
		uc.sessions.Append(sessionID, domain.Exchange{Question: question, Answer: answer})
	}

	return &domain.Answer{
		Text:      answer,
		SessionID: sessionID,
		Sources:   top,
	}, nil
}

// selectChunks ranks every chunk by keyword score and keeps the best
// topChunks with a positive score. Ties preserve original chunk order.
func (uc *QueryUseCase) selectChunks(doc *domain.Document, question string) []domain.Chunk {
	type scoredChunk struct {
		chunk domain.Chunk
		score int
	}

	scored := make([]scoredChunk, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		scored = append(scored, scoredChunk{chunk: chunk, score: scoreChunk(chunk.Text, question)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	top := make([]domain.Chunk, 0, uc.topChunks)
	for _, sc := range scored {
		if sc.score <= 0 || len(top) == uc.topChunks {
			break
		}
		top = append(top, sc.chunk)
	}
	return top
}

// buildContext joins the selected chunks, or falls back to the stored summary
// (then a raw text prefix) when the question shares no keywords with any
// chunk, so the model is never handed an empty context.
func buildContext(doc *domain.Document, top []domain.Chunk) string {
	if len(top) == 0 {
		if doc.Summary != "" {
			return doc.Summary
		}
		runes := []rune(doc.FullText)
		if len(runes) > fallbackPrefixLen {
			runes = runes[:fallbackPrefixLen]
		}
		return string(runes)
	}

	parts := make([]string, len(top))
	for i, chunk := range top {
		parts[i] = chunk.Text
	}
	return strings.Join(parts, "\n\n")
}
