package domain

// CompletionResult is a chat completion reply with its token accounting.
// Token counts come from the provider and drive credit settlement.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
