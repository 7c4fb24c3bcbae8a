package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
)

const (
	searchProviderName   = "search"
	defaultSearchBaseURL = "https://api.openai.com/v1"
)

// SearchClient is the citation-capable provider variant. It talks to a
// Responses-style endpoint with a web-search tool enabled and extracts
// source URLs from the reply's url-citation annotations.
type SearchClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewSearchClient creates a search-augmented provider. baseURL overrides the
// default endpoint when non-empty.
func NewSearchClient(apiKey, model, baseURL string, httpClient *http.Client) *SearchClient {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SearchClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type searchRequest struct {
	Model string          `json:"model"`
	Input []searchMessage `json:"input"`
	Tools []searchTool    `json:"tools,omitempty"`
}

type searchMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchTool struct {
	Type string `json:"type"`
}

type searchResponse struct {
	Output []searchOutput `json:"output"`
}

type searchOutput struct {
	Type    string          `json:"type"`
	Content []searchContent `json:"content"`
}

type searchContent struct {
	Type        string             `json:"type"`
	Text        string             `json:"text"`
	Annotations []searchAnnotation `json:"annotations"`
}

type searchAnnotation struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Name returns the variant name.
func (c *SearchClient) Name() string {
	return searchProviderName
}

// Invoke submits the prompt with the web-search tool enabled and returns the
// reply text plus its url citations in the order the provider returned them.
func (c *SearchClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	body, err := json.Marshal(searchRequest{
		Model: c.model,
		Input: []searchMessage{{Role: "user", Content: prompt}},
		Tools: []searchTool{{Type: "web_search"}},
	})
	if err != nil {
		return nil, apperrors.NewProviderError(searchProviderName, 0, "encoding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderError(searchProviderName, 0, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(searchProviderName, 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewProviderError(searchProviderName, resp.StatusCode,
			fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(msg))), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewProviderError(searchProviderName, 0, "decoding response", err)
	}

	var content strings.Builder
	var citations []string
	for _, out := range parsed.Output {
		if out.Type != "message" {
			continue
		}
		for _, part := range out.Content {
			if part.Type != "output_text" {
				continue
			}
			content.WriteString(part.Text)
			for _, ann := range part.Annotations {
				if ann.Type != "url_citation" {
					continue
				}
				// Annotation order is preserved; malformed URLs are dropped.
				if _, err := url.ParseRequestURI(ann.URL); err == nil {
					citations = append(citations, ann.URL)
				}
			}
		}
	}

	if content.Len() == 0 {
		return nil, apperrors.NewEmptyResponseError(searchProviderName)
	}

	return &Response{Content: content.String(), Citations: citations}, nil
}
