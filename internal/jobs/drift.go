package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/techfest/internal/app/models"
)

// CountSource lists event counters next to their stored registrations
type CountSource interface {
	RegistrationCounts(ctx context.Context) ([]models.EventRegistrationCount, error)
}

// DriftGauge exports the per-event drift
type DriftGauge interface {
	SetDrift(slug string, drift int)
}

// DriftMonitor reports events whose registered_count disagrees with the
// number of stored registrations. It never repairs the counter.
type DriftMonitor struct {
	source  CountSource
	gauge   DriftGauge
	logger  zerolog.Logger
	timeout time.Duration
}

// NewDriftMonitor creates a drift monitor. gauge may be nil.
func NewDriftMonitor(source CountSource, gauge DriftGauge, logger zerolog.Logger) *DriftMonitor {
	return &DriftMonitor{
		source:  source,
		gauge:   gauge,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Check compares all events once and returns how many drifted
func (m *DriftMonitor) Check(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	counts, err := m.source.RegistrationCounts(ctx)
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, c := range counts {
		drift := c.RegisteredCount - c.Stored
		if m.gauge != nil {
			m.gauge.SetDrift(c.Slug, drift)
		}
		if drift == 0 {
			continue
		}
		drifted++
		m.logger.Warn().
			Str("slug", c.Slug).
			Int("registeredCount", c.RegisteredCount).
			Int("stored", c.Stored).
			Int("drift", drift).
			Msg("Capacity counter drift detected")
	}
	return drifted, nil
}

// Run is the scheduler entry point; failures are logged
func (m *DriftMonitor) Run(ctx context.Context) {
	if _, err := m.Check(ctx); err != nil && ctx.Err() == nil {
		m.logger.Error().Err(err).Msg("Capacity drift check failed")
	}
}
