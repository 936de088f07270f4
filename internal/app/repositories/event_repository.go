package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "slug", "title", "track", "short_description", "long_description",
	"poster_url", "datetime", "capacity", "registered_count", "fee",
	"qr_payment_required", "requirements", "prizes", "created_at", "updated_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db, sb: psql}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &e.Track, &e.ShortDescription, &e.LongDescription,
		&e.PosterURL, &e.Datetime, &e.Capacity, &e.RegisteredCount, &e.Fee,
		&e.QRPaymentRequired, &e.Requirements, &e.Prizes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns every event in catalog order
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		OrderBy("created_at ASC", "slug ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// GetBySlug returns the event with the given canonical slug
func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by slug: %w", err)
	}
	return e, nil
}

// Summaries lists the slug and title of every event
func (r *EventRepository) Summaries(ctx context.Context) ([]models.EventSummary, error) {
	sql, args, err := r.sb.Select("slug", "title").From("events").OrderBy("slug ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event summaries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying event summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.EventSummary{}
	for rows.Next() {
		var s models.EventSummary
		if err := rows.Scan(&s.Slug, &s.Title); err != nil {
			return nil, fmt.Errorf("error scanning event summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Count returns the number of events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return n, nil
}

// Reserve takes one slot on the event in a single conditional UPDATE. The
// capacity guard and the increment run as one statement, so concurrent
// callers are serialised by the row lock and can never push
// registered_count past capacity. A NULL or non-positive capacity means the
// increment is unconditional. ErrNoSlot is returned when the guard rejects
// the row and ErrNotFound when the event no longer exists; nothing is
// modified in either case.
func (r *EventRepository) Reserve(ctx context.Context, slug string) (*models.Event, error) {
	sql, args, err := r.sb.Update("events").
		Set("registered_count", squirrel.Expr("registered_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slug": slug}).
		Where(squirrel.Or{
			squirrel.Eq{"capacity": nil},
			squirrel.LtOrEq{"capacity": 0},
			squirrel.Expr("registered_count < capacity"),
		}).
		Suffix("RETURNING " + strings.Join(eventColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reserve query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrFull(ctx, slug)
		}
		return nil, fmt.Errorf("error reserving slot: %w", err)
	}
	return e, nil
}

// missOrFull tells a rejected guard apart from a row deleted after the
// caller looked it up.
func (r *EventRepository) missOrFull(ctx context.Context, slug string) error {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking event after rejected reservation: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNoSlot
}

// Release gives back one slot taken by Reserve. The counter never drops
// below zero.
func (r *EventRepository) Release(ctx context.Context, slug string) error {
	sql, args, err := r.sb.Update("events").
		Set("registered_count", squirrel.Expr("GREATEST(registered_count - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build release query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error releasing slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts an event or refreshes its descriptive fields and capacity.
// registered_count is left untouched on conflict.
func (r *EventRepository) Upsert(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("id", "slug", "title", "track", "short_description", "long_description",
			"poster_url", "datetime", "capacity", "fee", "qr_payment_required", "requirements", "prizes").
		Values(e.ID, e.Slug, e.Title, e.Track, e.ShortDescription, e.LongDescription,
			e.PosterURL, e.Datetime, e.Capacity, e.Fee, e.QRPaymentRequired, nonNil(e.Requirements), nonNil(e.Prizes)).
		Suffix(`ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			track = EXCLUDED.track,
			short_description = EXCLUDED.short_description,
			long_description = EXCLUDED.long_description,
			poster_url = EXCLUDED.poster_url,
			datetime = EXCLUDED.datetime,
			capacity = EXCLUDED.capacity,
			fee = EXCLUDED.fee,
			qr_payment_required = EXCLUDED.qr_payment_required,
			requirements = EXCLUDED.requirements,
			prizes = EXCLUDED.prizes,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert event query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error upserting event %s: %w", e.Slug, err)
	}
	return nil
}

// RegistrationCounts pairs every event counter with its stored registrations
func (r *EventRepository) RegistrationCounts(ctx context.Context) ([]models.EventRegistrationCount, error) {
	sql, args, err := r.sb.Select("e.slug", "e.registered_count", "COUNT(r.id)").
		From("events e").
		LeftJoin("registrations r ON r.event_slug = e.slug").
		GroupBy("e.slug", "e.registered_count").
		OrderBy("e.slug ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registration counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registration counts: %w", err)
	}
	defer rows.Close()

	var counts []models.EventRegistrationCount
	for rows.Next() {
		var c models.EventRegistrationCount
		if err := rows.Scan(&c.Slug, &c.RegisteredCount, &c.Stored); err != nil {
			return nil, fmt.Errorf("error scanning registration count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
