// Package provider adapts heterogeneous AI backends behind a single
// interface. Each variant encapsulates its own request and response shape
// and surfaces exactly the raw text content plus any source citations, so
// downstream parsing never branches on the backend.
package provider

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
)

// Response is the uniform result of one provider invocation.
type Response struct {
	// Content is the raw model text, expected to contain a JSON array.
	Content string
	// Citations are source URLs from the provider's own attribution
	// mechanism, in provider order. Empty for variants without citation
	// support.
	Citations []string
}

// Provider is the uniform interface over AI backends.
type Provider interface {
	// Name returns the variant name for logging and error context.
	Name() string
	// Invoke submits the prompt and returns the model's reply. Transport
	// failures and empty replies surface as *errors.ProviderError; there is
	// no in-adapter retry.
	Invoke(ctx context.Context, prompt string) (*Response, error)
}

// Config configures a provider variant.
type Config struct {
	Variant string
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New constructs the provider selected by cfg.Variant. Selection happens
// once at process configuration time.
func New(cfg Config) (Provider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Variant {
	case "search":
		return NewSearchClient(cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient), nil
	case "chat":
		return NewChatClient(cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient), nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid,
			"unknown provider variant %q", cfg.Variant)
	}
}
