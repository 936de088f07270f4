package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/app/repositories"
	"github.com/yigit/techfest/internal/pkg/notify"
)

// memStore is an in-memory EventStore and RegistrationStore. Reserve
// checks and increments under one lock, the same contract the SQL
// conditional update gives.
type memStore struct {
	mu            sync.Mutex
	events        map[string]*models.Event
	registrations []*models.Registration
	nextID        int64

	reserveErr error
	releaseErr error
	createErr  error
	getErr     error
	releases   int
	reserves   int
}

func newMemStore(events ...*models.Event) *memStore {
	s := &memStore{events: map[string]*models.Event{}}
	for _, e := range events {
		s.events[e.Slug] = e
	}
	return s
}

func capped(slug string, capacity int) *models.Event {
	return &models.Event{ID: "evt-" + slug, Slug: slug, Title: "Event " + slug, Capacity: &capacity}
}

func unlimited(slug string) *models.Event {
	return &models.Event{ID: "evt-" + slug, Slug: slug, Title: "Event " + slug}
}

func (s *memStore) count(slug string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[slug].RegisteredCount
}

func (s *memStore) stored() []*models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Registration(nil), s.registrations...)
}

func (s *memStore) Reserve(_ context.Context, slug string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserves++
	if s.reserveErr != nil {
		return nil, s.reserveErr
	}

	e, ok := s.events[slug]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if e.HasCapacityLimit() && e.RegisteredCount >= *e.Capacity {
		return nil, repositories.ErrNoSlot
	}
	e.RegisteredCount++
	cp := *e
	return &cp, nil
}

func (s *memStore) Release(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	if s.releaseErr != nil {
		return s.releaseErr
	}

	e, ok := s.events[slug]
	if !ok {
		return repositories.ErrNotFound
	}
	if e.RegisteredCount > 0 {
		e.RegisteredCount--
	}
	return nil
}

func (s *memStore) List(context.Context) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Event, 0, len(s.events))
	for _, e := range s.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *memStore) GetBySlug(_ context.Context, slug string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	e, ok := s.events[slug]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) Summaries(ctx context.Context) ([]models.EventSummary, error) {
	events, _ := s.List(ctx)
	out := make([]models.EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, models.EventSummary{Slug: e.Slug, Title: e.Title})
	}
	return out, nil
}

func (s *memStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.events)), nil
}

// registrationView exposes the registration half of memStore, whose Count
// would otherwise collide with the event Count
type registrationView struct{ *memStore }

func (v registrationView) Create(_ context.Context, reg *models.Registration) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.createErr != nil {
		return v.createErr
	}
	for _, r := range v.registrations {
		if r.RegistrationID == reg.RegistrationID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "registrations_registration_id_key"}
		}
	}
	v.nextID++
	reg.ID = v.nextID
	v.registrations = append(v.registrations, reg)
	return nil
}

func (v registrationView) ListByEvent(_ context.Context, slug string) ([]*models.Registration, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []*models.Registration
	for _, r := range v.registrations {
		if r.EventSlug == slug {
			out = append(out, r)
		}
	}
	return out, nil
}

func (v registrationView) GetByRegistrationID(_ context.Context, id string) (*models.Registration, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.registrations {
		if r.RegistrationID == id {
			return r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (v registrationView) Count(context.Context) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return int64(len(v.registrations)), nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []notify.RegistrationCreated
	err  error
}

func (p *recordingPublisher) PublishRegistrationCreated(_ context.Context, msg notify.RegistrationCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingRecorder struct {
	mu            sync.Mutex
	reservations  map[string]int
	registrations map[string]int
	compensations map[string]int
	uploads       int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		reservations:  map[string]int{},
		registrations: map[string]int{},
		compensations: map[string]int{},
	}
}

func (r *countingRecorder) Reservation(o string) {
	r.mu.Lock()
	r.reservations[o]++
	r.mu.Unlock()
}

func (r *countingRecorder) Registration(o string) {
	r.mu.Lock()
	r.registrations[o]++
	r.mu.Unlock()
}

func (r *countingRecorder) Compensation(o string) {
	r.mu.Lock()
	r.compensations[o]++
	r.mu.Unlock()
}

func (r *countingRecorder) ObserveUpload(time.Duration) {
	r.mu.Lock()
	r.uploads++
	r.mu.Unlock()
}
