package services

import (
	"context"
	"errors"

	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/app/repositories"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/slugs"
)

// EventService handles event catalog reads
type EventService struct {
	events EventStore
}

// NewEventService creates a new event service instance
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// ListEvents returns the whole catalog
func (s *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, storeError(err, "listing events")
	}
	return events, nil
}

// GetEvent returns the event for a raw slug, resolving aliases first
func (s *EventService) GetEvent(ctx context.Context, rawSlug string) (*models.Event, error) {
	slug := slugs.Normalize(rawSlug)

	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found").
				WithCode(apperrors.CodeEventNotFound).
				WithDetails(dto.EventNotFoundDetails{AttemptedSlug: slug})
		}
		return nil, storeError(err, "getting event")
	}
	return event, nil
}
