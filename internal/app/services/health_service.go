package services

import (
	"context"
	"time"

	"github.com/yigit/techfest/internal/app/models/dto"
)

// Pinger checks datastore connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService builds the diagnostic health report
type HealthService struct {
	db            Pinger
	events        EventStore
	registrations RegistrationStore
	env           dto.EnvironmentFlags
}

// NewHealthService creates a new health service
func NewHealthService(db Pinger, events EventStore, registrations RegistrationStore, env dto.EnvironmentFlags) *HealthService {
	return &HealthService{
		db:            db,
		events:        events,
		registrations: registrations,
		env:           env,
	}
}

// Environment returns the presence flags reported by the service
func (s *HealthService) Environment() dto.EnvironmentFlags {
	return s.env
}

// Check pings the datastore and counts documents. It never fails; problems
// are reported in the body.
func (s *HealthService) Check(ctx context.Context) *dto.HealthResponse {
	health := &dto.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Environment: s.env,
	}

	if err := s.db.Ping(ctx); err != nil {
		health.Status = "error"
		health.Database.Error = err.Error()
		return health
	}
	health.Database.Connected = true

	events, err := s.events.Count(ctx)
	if err != nil {
		health.Status = "error"
		health.Database.Error = err.Error()
		return health
	}
	health.Database.EventsCount = &events

	registrations, err := s.registrations.Count(ctx)
	if err != nil {
		health.Status = "error"
		health.Database.Error = err.Error()
		return health
	}
	health.Database.RegistrationsCount = &registrations

	return health
}
