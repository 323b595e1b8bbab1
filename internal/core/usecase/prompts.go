package usecase

import (
	"fmt"
	"strings"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

const answerNotFoundPhrase = "I cannot find the answer in the uploaded document."

func buildChunkSummaryPrompt(chunkText string) string {
	return "You are a concise document summarizer. Summarize the following text in 2-3 short paragraphs, " +
		"focusing on main points and key facts, use simple language:\n\n" + chunkText
}

func buildCombinePrompt(chunkSummaries []string) string {
	return "You are a document summarizer. Combine and compress the following chunk summaries into a single " +
		"coherent summary in simple language (about 6-8 short lines):\n\n" + strings.Join(chunkSummaries, "\n\n")
}

func buildAnswerPrompt(contextText, question string, history []domain.Exchange) string {
	var conversation strings.Builder
	if len(history) > 0 {
		conversation.WriteString("\nPrevious conversation:\n")
		for _, ex := range history {
			conversation.WriteString("User: " + ex.Question + "\n")
			conversation.WriteString("Assistant: " + ex.Answer + "\n")
		}
	}

	return fmt.Sprintf(`You are a helpful assistant. Use ONLY the information in the CONTEXT to answer the user's question.
If the information is not present, reply: %q
%s
CONTEXT:
%s

QUESTION:
%s

Answer concisely and cite short quotes from the context when helpful.`,
		answerNotFoundPhrase, conversation.String(), contextText, question)
}
