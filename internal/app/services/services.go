// Package services holds the registration business logic.
//
// Services defined in this package:
//   - ReservationEngine: atomic capacity reservation with compensation
//   - EventService: event catalog lookups
//   - RegistrationService: the registration pipeline and registration lookups
//   - HealthService: datastore diagnostics
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/dberrors"
)

// SlotStore performs the guarded counter updates on an event
type SlotStore interface {
	Reserve(ctx context.Context, slug string) (*models.Event, error)
	Release(ctx context.Context, slug string) error
}

// EventStore is the event persistence used by the services
type EventStore interface {
	SlotStore
	List(ctx context.Context) ([]*models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	Summaries(ctx context.Context) ([]models.EventSummary, error)
	Count(ctx context.Context) (int64, error)
}

// RegistrationStore is the registration persistence used by the services
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	ListByEvent(ctx context.Context, slug string) ([]*models.Registration, error)
	GetByRegistrationID(ctx context.Context, registrationID string) (*models.Registration, error)
	Count(ctx context.Context) (int64, error)
}

// Recorder receives pipeline measurements
type Recorder interface {
	Reservation(outcome string)
	Registration(outcome string)
	Compensation(outcome string)
	ObserveUpload(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Reservation(string)          {}
func (nopRecorder) Registration(string)         {}
func (nopRecorder) Compensation(string)         {}
func (nopRecorder) ObserveUpload(time.Duration) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// storeError classifies a datastore failure. Connectivity problems become
// SERVICE_UNAVAILABLE, anything else an internal error.
func storeError(err error, action string) error {
	if dberrors.IsConnectionError(err) {
		return &apperrors.CustomError{
			Err:     fmt.Errorf("%w: %v", apperrors.ErrDatastoreUnavailable, err),
			Message: "Service temporarily unavailable",
			Code:    apperrors.CodeServiceUnavailable,
		}
	}
	return fmt.Errorf("error %s: %w", action, err)
}
