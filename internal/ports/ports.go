package ports

import (
	"context"
	"time"
)

// Browser opens isolated browser sessions.
type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// Session is one isolated tab. Close must be safe to call once on every path.
type Session interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Screenshot(ctx context.Context) ([]byte, error)
	// Evaluate runs expr in the page and decodes its JSON result into out.
	Evaluate(ctx context.Context, expr string, out any) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

type CompletionRequest struct {
	// Model overrides the completer's default model when set.
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

type Completion struct {
	Text       string
	TokensUsed int
}

// Completer is the AI completion service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// BlobStore uploads evidence objects. Upload returns domain.ErrKeyExists
// when key is already taken.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	PublicURL(key string) string
}

// EventPublisher emits domain events. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
