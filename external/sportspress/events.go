package sportspress

import (
	"context"
	"fmt"
	"net/url"

	"github.com/riskibarqy/hoopstats/internal/usecase"
)

const eventsPath = "/events"

// EventPages pages through the full game history, oldest first.
func (c *Client) EventPages(maxPages int) *Pager {
	query := url.Values{}
	query.Set("orderby", "date")
	query.Set("order", "asc")
	return c.Pages(eventsPath, query, maxPages)
}

// StreamEvents wraps EventPages with row extraction so callers see one
// ExternalEvent per game.
func (c *Client) StreamEvents(maxPages int) usecase.EventStream {
	return &EventStream{pager: c.EventPages(maxPages), extractor: c.extractor}
}

type EventStream struct {
	pager     *Pager
	extractor *Extractor
	events    []usecase.ExternalEvent
}

func (s *EventStream) Next(ctx context.Context) bool {
	s.events = nil
	if !s.pager.Next(ctx) {
		return false
	}
	page := s.pager.Page()
	s.events = make([]usecase.ExternalEvent, 0, len(page))
	for _, item := range page {
		s.events = append(s.events, s.decode(item))
	}
	return true
}

func (s *EventStream) decode(item map[string]any) usecase.ExternalEvent {
	eventID := getInt64(item, "id")
	if eventID <= 0 {
		return usecase.ExternalEvent{Err: fmt.Errorf("event without id on page %d", s.pager.PageNumber())}
	}
	rows, source := s.extractor.ExtractWithSource(item)
	ec := NewEventContext(item)
	return usecase.ExternalEvent{
		ID:     eventID,
		Date:   ec.Date,
		Source: source,
		Rows:   rows,
	}
}

func (s *EventStream) Events() []usecase.ExternalEvent {
	return s.events
}

func (s *EventStream) PageNumber() int {
	return s.pager.PageNumber()
}

func (s *EventStream) Err() error {
	return s.pager.Err()
}
