package models

import "time"

// Event is a fest workshop or competition that accepts registrations.
// Capacity nil (or <= 0) means the event is unlimited.
type Event struct {
	ID                string    `json:"id" yaml:"id"`
	Slug              string    `json:"slug" yaml:"slug"`
	Title             string    `json:"title" yaml:"title"`
	Track             string    `json:"track" yaml:"track"`
	ShortDescription  string    `json:"shortDescription" yaml:"shortDescription"`
	LongDescription   string    `json:"longDescription" yaml:"longDescription"`
	PosterURL         string    `json:"posterUrl" yaml:"posterUrl"`
	Datetime          string    `json:"datetime" yaml:"datetime"`
	Capacity          *int      `json:"capacity" yaml:"capacity"`
	RegisteredCount   int       `json:"registeredCount" yaml:"-"`
	Fee               int       `json:"fee" yaml:"fee"`
	QRPaymentRequired bool      `json:"qrPaymentRequired" yaml:"qrPaymentRequired"`
	Requirements      []string  `json:"requirements,omitempty" yaml:"requirements"`
	Prizes            []string  `json:"prizes,omitempty" yaml:"prizes"`
	CreatedAt         time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"-"`
}

// HasCapacityLimit reports whether reservations on this event are guarded
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity != nil && *e.Capacity > 0
}

// Remaining returns the free slots, or -1 for unlimited events
func (e *Event) Remaining() int {
	if !e.HasCapacityLimit() {
		return -1
	}
	if left := *e.Capacity - e.RegisteredCount; left > 0 {
		return left
	}
	return 0
}

// EventSummary is the slug/title pair listed when a lookup misses
type EventSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
