package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoSlot is returned when the capacity guard rejects a reservation.
	ErrNoSlot = errors.New("no slot left")
)

// psql builds statements with $n placeholders for pgx
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
}

// NewRepositories initializes all repositories on the shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EventRepository:        NewEventRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
	}
}
