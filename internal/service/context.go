package service

import (
	"strings"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// contextInstruction precedes the retrieved chunks in the synthetic context
// message so the model only answers from the injected material.
const contextInstruction = "Context information is below. Answer using only this context and no other knowledge:"

// PromptConfig bounds the assembled prompt.
type PromptConfig struct {
	// HistoryMaxMessages caps how many prior history messages are injected.
	// Oldest user/assistant pairs are dropped first; the persona and the
	// current turn never count against the cap. Zero means unlimited.
	HistoryMaxMessages int
}

// AssemblePrompt renders the fixed persona, the prior conversation, the
// retrieved chunks, and the user query into the ordered message sequence sent
// to the generation call. The persona is always first and verbatim; the
// context message concatenates chunk texts in similarity order under an
// explicit grounding instruction; the query is always last.
func AssemblePrompt(persona string, history []domain.ChatMessage, retrieved []domain.RetrievedChunk, query string, cfg PromptConfig) []domain.ChatMessage {
	history = truncateHistory(history, cfg.HistoryMaxMessages)

	prompt := make([]domain.ChatMessage, 0, len(history)+3)
	prompt = append(prompt, domain.ChatMessage{Role: domain.RoleSystem, Content: persona})
	prompt = append(prompt, history...)

	if len(retrieved) > 0 {
		prompt = append(prompt, domain.ChatMessage{
			Role:    domain.RoleSystem,
			Content: renderContext(retrieved),
		})
	}

	prompt = append(prompt, domain.ChatMessage{Role: domain.RoleUser, Content: query})
	return prompt
}

func renderContext(retrieved []domain.RetrievedChunk) string {
	var b strings.Builder
	b.WriteString(contextInstruction)
	for _, chunk := range retrieved {
		b.WriteString("\n\n")
		b.WriteString(chunk.Text)
	}
	return b.String()
}

// truncateHistory keeps the most recent limit messages, aligned to turn
// boundaries so an assistant reply is never kept without its user message.
func truncateHistory(history []domain.ChatMessage, limit int) []domain.ChatMessage {
	if limit <= 0 || len(history) <= limit {
		return history
	}

	start := len(history) - limit
	// Never start the window on an assistant message.
	for start < len(history) && history[start].Role == domain.RoleAssistant {
		start++
	}
	return history[start:]
}
