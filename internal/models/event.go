// Package models defines the core data structures for market-moving events.
package models

import (
	"fmt"
	"time"
)

// EventType is the canonical category of a market event.
type EventType string

const (
	TypeEconomic           EventType = "Economic"
	TypeFed                EventType = "Fed"
	TypeCrypto             EventType = "Crypto"
	TypeRetailGeopolitical EventType = "Retail/Geopolitical"
	TypeHoliday            EventType = "Holiday"
	TypeGeopolitical       EventType = "Geopolitical"
	TypeCorporate          EventType = "Corporate"
)

// CanonicalEventTypes lists the seven categories events are tagged with.
var CanonicalEventTypes = []EventType{
	TypeEconomic,
	TypeFed,
	TypeCrypto,
	TypeRetailGeopolitical,
	TypeHoliday,
	TypeGeopolitical,
	TypeCorporate,
}

// Valid reports whether the type is one of the canonical categories.
func (t EventType) Valid() bool {
	switch t {
	case TypeEconomic, TypeFed, TypeCrypto, TypeRetailGeopolitical,
		TypeHoliday, TypeGeopolitical, TypeCorporate:
		return true
	}
	return false
}

// typeSynonyms maps category labels the model is known to emit to their
// canonical value. Matches are exact; anything unmatched and non-canonical
// falls back to Economic.
var typeSynonyms = map[string]EventType{
	"FOMC":            TypeFed,
	"Federal Reserve": TypeFed,
	"Central Bank":    TypeFed,
	"Monetary Policy": TypeFed,
	"Cryptocurrency":  TypeCrypto,
	"Digital Assets":  TypeCrypto,
	"Earnings":        TypeCorporate,
	"Company":         TypeCorporate,
	"Politics":        TypeGeopolitical,
	"Political":       TypeGeopolitical,
	"Retail":          TypeRetailGeopolitical,
	"Macro":           TypeEconomic,
	"Macroeconomic":   TypeEconomic,
	"Data Release":    TypeEconomic,
	"Market Holiday":  TypeHoliday,
}

// CanonicalEventType resolves a raw category label to a canonical EventType.
// Known synonyms are substituted, canonical values pass through, and anything
// else maps to Economic rather than being rejected, since model output
// vocabulary drifts.
func CanonicalEventType(raw string) EventType {
	if mapped, ok := typeSynonyms[raw]; ok {
		return mapped
	}
	if t := EventType(raw); t.Valid() {
		return t
	}
	return TypeEconomic
}

// Significance is how market-moving an event is expected to be.
type Significance string

const (
	SignificanceHigh   Significance = "High"
	SignificanceMedium Significance = "Medium"
	SignificanceLow    Significance = "Low"
)

// Valid reports whether the significance is one of High, Medium, Low.
func (s Significance) Valid() bool {
	switch s {
	case SignificanceHigh, SignificanceMedium, SignificanceLow:
		return true
	}
	return false
}

// MarketSentiment is the expected directional read of an event.
type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "Bullish"
	SentimentBearish MarketSentiment = "Bearish"
	SentimentNeutral MarketSentiment = "Neutral"
	SentimentMixed   MarketSentiment = "Mixed"
)

// Valid reports whether the sentiment is one of the four recognized values.
func (m MarketSentiment) Valid() bool {
	switch m {
	case SentimentBullish, SentimentBearish, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// MarketEvent is a persisted market-moving event. The (Event, Date) pair is
// the semantic identity used for deduplication; ID is store-assigned.
type MarketEvent struct {
	ID              int64           `json:"id"`
	Date            string          `json:"date"` // verbatim human-readable date or range, e.g. "December 1-3 2025"
	Event           string          `json:"event"`
	Type            EventType       `json:"type"`
	Description     string          `json:"description"`
	Significance    Significance    `json:"significance"`
	MarketSentiment MarketSentiment `json:"market_sentiment"`
	Citations       []string        `json:"citations,omitempty"`
	WeekStart       string          `json:"week_start,omitempty"` // ISO date of the target week's Monday
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CandidateEvent is a provider-derived event that has passed schema
// validation but is not yet confirmed unique against the store.
type CandidateEvent struct {
	Date            string
	Event           string
	Type            EventType
	Description     string
	Significance    Significance
	MarketSentiment MarketSentiment
	Citations       []string
}

// Validate checks that the candidate satisfies the canonical-value
// invariants and has no empty required field.
func (c *CandidateEvent) Validate() error {
	if c.Date == "" {
		return fmt.Errorf("date is required")
	}
	if c.Event == "" {
		return fmt.Errorf("event title is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("invalid event type %q", c.Type)
	}
	if !c.Significance.Valid() {
		return fmt.Errorf("invalid significance %q", c.Significance)
	}
	if !c.MarketSentiment.Valid() {
		return fmt.Errorf("invalid market sentiment %q", c.MarketSentiment)
	}
	return nil
}
