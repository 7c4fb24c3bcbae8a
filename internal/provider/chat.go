package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
)

const chatProviderName = "chat"

// ChatClient is the plain-text provider variant. It talks to a
// chat-completions endpoint and has no citation support, so Citations is
// always empty.
type ChatClient struct {
	client *openai.Client
	model  string
}

// NewChatClient creates a chat-completions provider. baseURL overrides the
// default OpenAI endpoint when non-empty, which allows any compatible
// backend.
func NewChatClient(apiKey, model, baseURL string, httpClient *http.Client) *ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &ChatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name returns the variant name.
func (c *ChatClient) Name() string {
	return chatProviderName
}

// Invoke sends the prompt as a single user message and returns the reply
// text with an empty citation list.
func (c *ChatClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		status := 0
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		} else if errors.As(err, &reqErr) {
			status = reqErr.HTTPStatusCode
		}
		return nil, apperrors.NewProviderError(chatProviderName, status, "completion request failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, apperrors.NewEmptyResponseError(chatProviderName)
	}
	return &Response{Content: resp.Choices[0].Message.Content}, nil
}
