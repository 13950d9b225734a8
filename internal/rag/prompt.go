package rag

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the single-string prompt sent to the generate model:
// system instruction, recent conversation, merged context, the question, and
// the response instructions.
func buildPrompt(question, context string, history []Turn, maxHistory int) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant answering questions based on provided information. Use the conversation history to provide contextual answers.\n")
	b.WriteString(formatHistory(history, maxHistory))
	b.WriteString("\nContext:\n")
	b.WriteString(context)
	b.WriteString("\n\nCurrent question: ")
	b.WriteString(question)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Answer based on the context provided\n")
	b.WriteString("- If referring to previous conversation, acknowledge it naturally\n")
	b.WriteString("- If the answer isn't in the context, say so\n")
	b.WriteString("- Be conversational and helpful\n")
	b.WriteString("- Synthesize information from multiple sources when relevant\n")
	b.WriteString("\nAnswer:")

	return b.String()
}

// formatHistory renders the last maxHistory turns oldest-first as
// "Human:"/"Assistant:" lines. Empty history renders nothing at all, not an
// empty header.
func formatHistory(history []Turn, maxHistory int) string {
	if len(history) == 0 {
		return ""
	}

	recent := history
	if len(recent) > maxHistory {
		recent = recent[len(recent)-maxHistory:]
	}

	var b strings.Builder
	b.WriteString("\nPrevious conversation:\n")
	for _, turn := range recent {
		role := "Assistant"
		if turn.Role == "user" {
			role = "Human"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", role, turn.Content))
	}
	return b.String()
}
