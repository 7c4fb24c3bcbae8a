package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/events"
	"github.com/dorianjanezic/major-news/internal/models"
	"github.com/dorianjanezic/major-news/internal/store"
)

// PipelineTrigger is the manual trigger surface the handlers expose.
type PipelineTrigger interface {
	GenerateCurrentWeekEvents(ctx context.Context) (*events.Result, error)
	GenerateUpcomingWeekEvents(ctx context.Context) (*events.Result, error)
}

// EventHandler serves the CRUD and trigger endpoints over the event store
// and pipeline.
type EventHandler struct {
	store   store.EventStore
	trigger PipelineTrigger
	logger  zerolog.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(st store.EventStore, trigger PipelineTrigger, logger zerolog.Logger) *EventHandler {
	return &EventHandler{store: st, trigger: trigger, logger: logger}
}

func toEventResponse(e models.MarketEvent) EventResponse {
	citations := e.Citations
	if citations == nil {
		citations = []string{}
	}
	return EventResponse{
		ID:              e.ID,
		Date:            e.Date,
		Event:           e.Event,
		Type:            string(e.Type),
		Description:     e.Description,
		Significance:    string(e.Significance),
		MarketSentiment: string(e.MarketSentiment),
		Citations:       citations,
		WeekStart:       e.WeekStart,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}

// ListEvents handles GET /api/events with optional week, type, limit and
// offset query parameters.
func (h *EventHandler) ListEvents(c *gin.Context) {
	filter := store.ListFilter{
		WeekStart: c.Query("week"),
		Type:      c.Query("type"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = v
	}

	list, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Listing events failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	res := ListResponse{Events: make([]EventResponse, 0, len(list)), Total: len(list)}
	for _, e := range list {
		res.Events = append(res.Events, toEventResponse(e))
	}
	c.JSON(http.StatusOK, res)
}

// UpdateEvent handles PATCH /api/events/:id with a partial update body.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Loading event failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Event != nil {
		event.Event = *req.Event
	}
	if req.Type != nil {
		t := models.EventType(*req.Type)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid event type"})
			return
		}
		event.Type = t
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Significance != nil {
		s := models.Significance(*req.Significance)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid significance"})
			return
		}
		event.Significance = s
	}
	if req.MarketSentiment != nil {
		m := models.MarketSentiment(*req.MarketSentiment)
		if !m.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid market sentiment"})
			return
		}
		event.MarketSentiment = m
	}

	if err := h.store.Update(c.Request.Context(), event); err != nil {
		if apperrors.Is(err, apperrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Updating event failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, toEventResponse(*event))
}

// DeleteEvent handles DELETE /api/events/:id.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid event id"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if apperrors.Is(err, apperrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Deleting event failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateCurrent handles POST /api/events/generate, running the pipeline
// for the current week.
func (h *EventHandler) GenerateCurrent(c *gin.Context) {
	h.generate(c, h.trigger.GenerateCurrentWeekEvents)
}

// GenerateUpcoming handles POST /api/events/generate/upcoming, running the
// pipeline for the upcoming week.
func (h *EventHandler) GenerateUpcoming(c *gin.Context) {
	h.generate(c, h.trigger.GenerateUpcomingWeekEvents)
}

func (h *EventHandler) generate(c *gin.Context, run func(context.Context) (*events.Result, error)) {
	result, err := run(c.Request.Context())
	if err != nil {
		kind := apperrors.Kind(err)
		h.logger.Error().Err(err).Str("kind", kind).Msg("Manual generation failed")
		status := http.StatusInternalServerError
		if kind == "provider" || kind == "parse" {
			status = http.StatusBadGateway
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	res := GenerateResponse{
		WeekStart: result.WeekStart,
		Generated: result.Generated,
		Created:   make([]EventResponse, 0, len(result.Created)),
		Skipped:   result.Skipped,
	}
	for _, e := range result.Created {
		res.Created = append(res.Created, toEventResponse(e))
	}
	c.JSON(http.StatusOK, res)
}

// Health handles GET /health, reporting store reachability.
func (h *EventHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
