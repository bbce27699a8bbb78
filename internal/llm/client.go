// Package llm abstracts the language-model services used for digest
// summarization behind a single completion interface.
package llm

import "context"

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client produces a completion for a request. Implementations wrap one
// provider SDK each; the pipeline picks one via LLM_PROVIDER.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
