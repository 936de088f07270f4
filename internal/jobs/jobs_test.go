package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/techfest/internal/app/models"
)

type fakeCounts struct {
	counts []models.EventRegistrationCount
	err    error
}

func (f fakeCounts) RegistrationCounts(context.Context) ([]models.EventRegistrationCount, error) {
	return f.counts, f.err
}

type fakeGauge struct {
	mu     sync.Mutex
	values map[string]int
}

func (g *fakeGauge) SetDrift(slug string, drift int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.values == nil {
		g.values = map[string]int{}
	}
	g.values[slug] = drift
}

func TestDriftMonitor_Check(t *testing.T) {
	gauge := &fakeGauge{}
	monitor := NewDriftMonitor(fakeCounts{counts: []models.EventRegistrationCount{
		{Slug: "tech-quiz", RegisteredCount: 4, Stored: 4},
		{Slug: "web-dev", RegisteredCount: 7, Stored: 5},
		{Slug: "robo-race", RegisteredCount: 0, Stored: 1},
	}}, gauge, zerolog.Nop())

	drifted, err := monitor.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, drifted)
	assert.Equal(t, map[string]int{"tech-quiz": 0, "web-dev": 2, "robo-race": -1}, gauge.values)
}

func TestDriftMonitor_CheckError(t *testing.T) {
	monitor := NewDriftMonitor(fakeCounts{err: errors.New("db down")}, nil, zerolog.Nop())

	_, err := monitor.Check(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	s, err := NewScheduler(zerolog.Nop())
	require.NoError(t, err)

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Every("probe", time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))
	s.Start()
	defer func() { assert.NoError(t, s.Shutdown()) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RejectsInterval(t *testing.T) {
	s, err := NewScheduler(zerolog.Nop())
	require.NoError(t, err)
	defer s.Shutdown()

	assert.Error(t, s.Every("bad", 0, func(context.Context) {}))
}
