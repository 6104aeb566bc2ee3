package domain

import "context"

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Turns     Transcript
	MaxTokens int
}

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SessionStore persists transcripts under an opaque id with a fixed expiry.
// Load returns ErrSessionNotFound for ids that never existed or have expired.
type SessionStore interface {
	Create(ctx context.Context, transcript Transcript) (SessionID, error)
	Load(ctx context.Context, id SessionID) (Transcript, error)
	Save(ctx context.Context, id SessionID, transcript Transcript) error
}

// OrderHistory reads a shopper's past orders and profile. An implementation
// is bound to one bearer token.
type OrderHistory interface {
	FetchProductHistory(ctx context.Context) ([]Product, error)
	FetchPersonaDescription(ctx context.Context) (string, error)
}

// OrderHistoryProvider hands out an OrderHistory for a bearer token.
type OrderHistoryProvider interface {
	ForToken(bearerToken string) OrderHistory
}

// ProductSearcher queries the product search API.
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
