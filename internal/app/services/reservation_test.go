package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/techfest/internal/app/repositories"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/metrics"
)

func TestReservationEngine_ConcurrentCapacity(t *testing.T) {
	const (
		capacity = 7
		attempts = 60
	)
	store := newMemStore(capped("demo", capacity))
	engine := NewReservationEngine(store, nil, zerolog.Nop())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reserved int
		full     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Reserve(context.Background(), "demo")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				reserved++
			} else if errors.Is(err, apperrors.ErrEventFull) {
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, reserved)
	assert.Equal(t, attempts-capacity, full)
	assert.Equal(t, capacity, store.count("demo"))
}

func TestReservationEngine_UnlimitedAndZeroCapacity(t *testing.T) {
	store := newMemStore(unlimited("open"), capped("zero", 0))
	engine := NewReservationEngine(store, nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		for _, slug := range []string{"open", "zero"} {
			wg.Add(1)
			go func(slug string) {
				defer wg.Done()
				_, err := engine.Reserve(context.Background(), slug)
				assert.NoError(t, err)
			}(slug)
		}
	}
	wg.Wait()

	assert.Equal(t, 25, store.count("open"))
	assert.Equal(t, 25, store.count("zero"))
}

func TestReservationEngine_FullHasCode(t *testing.T) {
	store := newMemStore(capped("demo", 1))
	rec := newCountingRecorder()
	engine := NewReservationEngine(store, rec, zerolog.Nop())

	r, err := engine.Reserve(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Event.RegisteredCount)

	_, err = engine.Reserve(context.Background(), "demo")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEventFull, apperrors.CodeOf(err))
	assert.Equal(t, 1, store.count("demo"))
	assert.Equal(t, 1, rec.reservations[metrics.OutcomeReserved])
	assert.Equal(t, 1, rec.reservations[metrics.OutcomeFull])
}

func TestReservationEngine_MissingEventIsNotFull(t *testing.T) {
	store := newMemStore(capped("demo", 1))
	rec := newCountingRecorder()
	engine := NewReservationEngine(store, rec, zerolog.Nop())

	_, err := engine.Reserve(context.Background(), "gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrEventFull)
	assert.Zero(t, rec.reservations[metrics.OutcomeFull])
}

func TestReservation_CompensateOnce(t *testing.T) {
	store := newMemStore(capped("demo", 2))
	rec := newCountingRecorder()
	engine := NewReservationEngine(store, rec, zerolog.Nop())

	r1, err := engine.Reserve(context.Background(), "demo")
	require.NoError(t, err)
	_, err = engine.Reserve(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, 2, store.count("demo"))

	require.NoError(t, r1.Compensate(context.Background()))
	require.NoError(t, r1.Compensate(context.Background()))

	assert.Equal(t, 1, store.count("demo"))
	assert.Equal(t, 1, store.releases)
	assert.Equal(t, 1, rec.compensations[metrics.OutcomeOK])
}

func TestReservation_CompensateIgnoresCancelledContext(t *testing.T) {
	store := newMemStore(capped("demo", 1))
	engine := NewReservationEngine(store, nil, zerolog.Nop())

	r, err := engine.Reserve(context.Background(), "demo")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Compensate(ctx))
	assert.Equal(t, 0, store.count("demo"))
}

func TestReservation_CompensateFailureIsReported(t *testing.T) {
	store := newMemStore(capped("demo", 1))
	rec := newCountingRecorder()
	engine := NewReservationEngine(store, rec, zerolog.Nop())

	r, err := engine.Reserve(context.Background(), "demo")
	require.NoError(t, err)

	store.releaseErr = errors.New("connection reset")
	assert.EqualError(t, r.Compensate(context.Background()), "connection reset")
	assert.Equal(t, 1, rec.compensations[metrics.OutcomeFailed])
}
