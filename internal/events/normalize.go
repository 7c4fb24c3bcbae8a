package events

import (
	"encoding/json"
	"strings"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/models"
)

// rawEvent is the wire shape of one element of the model's JSON array.
type rawEvent struct {
	Date            string `json:"date"`
	Event           string `json:"event"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	Significance    string `json:"significance"`
	MarketSentiment string `json:"marketSentiment"`
}

// extractArray returns the outermost [...] span within content. The model
// often wraps its JSON in prose or code fences.
func extractArray(content string) (string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return "", apperrors.NewParseError(apperrors.ReasonNoArrayFound, nil)
	}
	return content[start : end+1], nil
}

// Normalize converts raw provider output into validated candidate events.
//
// A malformed element is skipped, not fatal: partial success is the normal
// case. The whole batch fails only when no JSON array can be located or
// parsed, or when every element is rejected. The citations list, when
// non-empty, is attached to every surviving candidate since the provider
// attributes sources to the invocation as a whole.
func Normalize(content string, citations []string) ([]models.CandidateEvent, error) {
	span, err := extractArray(content)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(span), &elements); err != nil {
		var probe interface{}
		if jsonErr := json.Unmarshal([]byte(span), &probe); jsonErr != nil {
			return nil, apperrors.NewParseError(apperrors.ReasonInvalidJSON, jsonErr)
		}
		return nil, apperrors.NewParseError(apperrors.ReasonNotArray, nil)
	}

	candidates := make([]models.CandidateEvent, 0, len(elements))
	for _, element := range elements {
		var raw rawEvent
		if err := json.Unmarshal(element, &raw); err != nil {
			continue
		}
		if raw.Date == "" || raw.Event == "" || raw.Type == "" ||
			raw.Description == "" || raw.Significance == "" || raw.MarketSentiment == "" {
			continue
		}
		// Enum matches are case-sensitive and exact.
		significance := models.Significance(raw.Significance)
		sentiment := models.MarketSentiment(raw.MarketSentiment)
		if !significance.Valid() || !sentiment.Valid() {
			continue
		}

		candidate := models.CandidateEvent{
			Date:            raw.Date,
			Event:           raw.Event,
			Type:            models.CanonicalEventType(raw.Type),
			Description:     raw.Description,
			Significance:    significance,
			MarketSentiment: sentiment,
		}
		if len(citations) > 0 {
			candidate.Citations = append([]string(nil), citations...)
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, apperrors.NewParseError(apperrors.ReasonNoValidEvents, nil)
	}
	return candidates, nil
}
