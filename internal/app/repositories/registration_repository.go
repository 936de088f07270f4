package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/pkg/logger"
)

var registrationColumns = []string{
	"id", "registration_id", "event_slug", "event_title", "name", "email",
	"whatsapp", "college", "semester", "branch", "is_ieee_member",
	"membership_grade", "membership_number", "payment_done",
	"payment_screenshot_url", "payment_screenshot_delete_url", "status",
	"created_at", "updated_at",
}

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db, sb: psql}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	reg := &models.Registration{}
	err := row.Scan(
		&reg.ID, &reg.RegistrationID, &reg.EventSlug, &reg.EventTitle, &reg.Name, &reg.Email,
		&reg.Whatsapp, &reg.College, &reg.Semester, &reg.Branch, &reg.IsIEEEMember,
		&reg.MembershipGrade, &reg.MembershipNumber, &reg.PaymentDone,
		&reg.PaymentScreenshotURL, &reg.PaymentScreenshotDeleteURL, &reg.Status,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Create inserts the registration and sets its database ID. Unique
// violations are returned wrapped so callers can inspect the constraint.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	sql, args, err := r.sb.Insert("registrations").
		Columns(
			"registration_id", "event_slug", "event_title", "name", "email",
			"whatsapp", "college", "semester", "branch", "is_ieee_member",
			"membership_grade", "membership_number", "payment_done",
			"payment_screenshot_url", "payment_screenshot_delete_url", "status",
			"created_at", "updated_at",
		).
		Values(
			reg.RegistrationID, reg.EventSlug, reg.EventTitle, reg.Name, reg.Email,
			reg.Whatsapp, reg.College, string(reg.Semester), reg.Branch, reg.IsIEEEMember,
			reg.MembershipGrade, reg.MembershipNumber, reg.PaymentDone,
			reg.PaymentScreenshotURL, reg.PaymentScreenshotDeleteURL, string(reg.Status),
			reg.CreatedAt, reg.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&reg.ID); err != nil {
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// ListByEvent returns the registrations of one event, oldest first
func (r *RegistrationRepository) ListByEvent(ctx context.Context, slug string) ([]*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).
		From("registrations").
		Where(squirrel.Eq{"event_slug": slug}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("slug", slug).Msg("Error executing list registrations query")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, nil
}

// GetByRegistrationID returns a registration by its public id
func (r *RegistrationRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).
		From("registrations").
		Where(squirrel.Eq{"registration_id": registrationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg, err := scanRegistration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting registration: %w", err)
	}
	return reg, nil
}

// Count returns the number of stored registrations
func (r *RegistrationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM registrations").Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return n, nil
}
