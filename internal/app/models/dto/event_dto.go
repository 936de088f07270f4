package dto

import "github.com/yigit/techfest/internal/app/models"

// EventResponse is an event as served to clients. Remaining is null for
// unlimited events.
type EventResponse struct {
	*models.Event
	Remaining *int `json:"remaining"`
}

// NewEventResponse wraps e with its free slot count
func NewEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{Event: e}
	if e.HasCapacityLimit() {
		left := e.Remaining()
		resp.Remaining = &left
	}
	return resp
}

// NewEventResponses converts a catalog listing
func NewEventResponses(events []*models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}
