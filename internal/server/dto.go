package server

// EventResponse is the wire shape of one persisted event.
type EventResponse struct {
	ID              int64    `json:"id"`
	Date            string   `json:"date"`
	Event           string   `json:"event"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Significance    string   `json:"significance"`
	MarketSentiment string   `json:"market_sentiment"`
	Citations       []string `json:"citations"`
	WeekStart       string   `json:"week_start,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ListResponse wraps a page of events.
type ListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

// GenerateResponse reports the outcome of a manually triggered pipeline run.
type GenerateResponse struct {
	WeekStart string          `json:"week_start"`
	Generated int             `json:"generated"`
	Created   []EventResponse `json:"created"`
	Skipped   int             `json:"skipped"`
}

// ErrorResponse is the structured failure result for pipeline errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// UpdateEventRequest carries a partial update; nil fields are left
// untouched.
type UpdateEventRequest struct {
	Date            *string `json:"date"`
	Event           *string `json:"event"`
	Type            *string `json:"type"`
	Description     *string `json:"description"`
	Significance    *string `json:"significance"`
	MarketSentiment *string `json:"market_sentiment"`
}
