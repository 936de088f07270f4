package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/app/repositories"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/metrics"
)

// DefaultCompensationTimeout bounds a single rollback attempt
const DefaultCompensationTimeout = 5 * time.Second

// ReservationEngine hands out event slots. The capacity check and the
// increment happen in one store call; the engine never reads the counter
// itself.
type ReservationEngine struct {
	store   SlotStore
	metrics Recorder
	logger  zerolog.Logger
	timeout time.Duration
}

// NewReservationEngine creates a new reservation engine
func NewReservationEngine(store SlotStore, recorder Recorder, logger zerolog.Logger) *ReservationEngine {
	return &ReservationEngine{
		store:   store,
		metrics: recorderOrNop(recorder),
		logger:  logger,
		timeout: DefaultCompensationTimeout,
	}
}

// Reservation is one slot taken on an event. Compensate gives it back.
type Reservation struct {
	// Event is the record as it was right after the increment
	Event *models.Event

	engine *ReservationEngine
	slug   string
	once   sync.Once
	err    error
}

// Reserve takes a slot on slug. It fails with ErrEventFull when the
// capacity guard rejects the increment and passes repositories.ErrNotFound
// through when the event is gone; nothing is modified in either case.
func (e *ReservationEngine) Reserve(ctx context.Context, slug string) (*Reservation, error) {
	event, err := e.store.Reserve(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNoSlot) {
			e.metrics.Reservation(metrics.OutcomeFull)
			return nil, apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full").
				WithCode(apperrors.CodeEventFull)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		e.metrics.Reservation(metrics.OutcomeError)
		return nil, storeError(err, "reserving slot")
	}

	e.metrics.Reservation(metrics.OutcomeReserved)
	return &Reservation{Event: event, engine: e, slug: slug}, nil
}

// Compensate releases the slot. Only the first call has an effect. The
// release runs detached from ctx cancellation so an aborted request still
// gives its slot back. Failures are logged and returned for inspection,
// never meant to replace the error that triggered the rollback.
func (r *Reservation) Compensate(ctx context.Context) error {
	r.once.Do(func() {
		e := r.engine
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		if err := e.store.Release(releaseCtx, r.slug); err != nil {
			r.err = err
			e.metrics.Compensation(metrics.OutcomeFailed)
			e.logger.Error().Err(err).Str("slug", r.slug).Msg("Failed to roll back capacity reservation")
			return
		}
		e.metrics.Compensation(metrics.OutcomeOK)
		e.logger.Warn().Str("slug", r.slug).Msg("Capacity reservation rolled back")
	})
	return r.err
}
