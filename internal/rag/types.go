package rag

// Turn is one prior exchange in the conversation.
type Turn struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}

// Request represents a knowledge-base query.
type Request struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// History carries prior conversation turns, oldest first.
	History []Turn `json:"chat_history,omitempty"`
	// TopK optionally overrides how many chunks to retrieve.
	TopK int `json:"top_k,omitempty"`
}

// Response represents the answer to a query.
type Response struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`
	// Sources lists where the context came from, document chunks first
	// ("file.pdf (Page 3, text)") and then web result URLs.
	Sources []string `json:"sources"`
}
