package tracking

import (
	"context"
	"net/http"

	"github.com/matst80/escape-finder/pkg/types"
)

const (
	EventSearch uint16 = 1
	EventView   uint16 = 2
)

type BaseEvent struct {
	RequestId string `json:"request_id"`
	Event     uint16 `json:"event"`
	Context   string `json:"context,omitempty"`
}

type SearchEvent struct {
	*BaseEvent
	Criteria        *types.Criteria `json:"criteria"`
	Sort            types.SortKey   `json:"sort"`
	NumberOfResults int             `json:"noi"`
	Referer         string          `json:"referer,omitempty"`
	UserAgent       string          `json:"user_agent,omitempty"`
}

type ViewEvent struct {
	*BaseEvent
	Room    int    `json:"room"`
	Referer string `json:"referer,omitempty"`
}

type Tracking interface {
	TrackSearch(ctx context.Context, event SearchEvent)
	TrackView(ctx context.Context, event ViewEvent)
	Close() error
}

func NewSearchEvent(requestId string, r *http.Request, req *types.SearchRequest, results int) SearchEvent {
	return SearchEvent{
		BaseEvent:       &BaseEvent{RequestId: requestId, Event: EventSearch, Context: "list"},
		Criteria:        &req.Criteria,
		Sort:            req.SortKey,
		NumberOfResults: results,
		Referer:         r.Header.Get("Referer"),
		UserAgent:       r.UserAgent(),
	}
}

func NewViewEvent(requestId string, r *http.Request, room int) ViewEvent {
	return ViewEvent{
		BaseEvent: &BaseEvent{RequestId: requestId, Event: EventView, Context: "room"},
		Room:      room,
		Referer:   r.Header.Get("Referer"),
	}
}

// NopTracking drops every event.
type NopTracking struct{}

func (NopTracking) TrackSearch(context.Context, SearchEvent) {}

func (NopTracking) TrackView(context.Context, ViewEvent) {}

func (NopTracking) Close() error {
	return nil
}
