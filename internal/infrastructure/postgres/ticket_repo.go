package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/domain/ticket"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// Ping probes store connectivity before a batch run.
func (r *TicketRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Exists reports whether a ticket matching the duplicate key is already
// stored. Matching is exact equality on all five key fields plus route.
func (r *TicketRepository) Exists(ctx context.Context, k ticket.Key) (bool, error) {
	const sql = `
		SELECT id
		FROM tickets
		WHERE departure_at = $1
		  AND return_at = $2
		  AND outbound_flight_number = $3
		  AND return_flight_number = $4
		  AND origin = $5
		  AND destination = $6
		LIMIT 1
	`

	var id int64
	err := r.pool.QueryRow(ctx, sql,
		k.DepartureAt, k.ReturnAt,
		k.OutboundFlight, k.ReturnFlight,
		k.Origin, k.Destination,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup ticket: %w", err)
	}

	return true, nil
}

// Insert stores a new ticket and fills in its id and creation timestamp.
func (r *TicketRepository) Insert(ctx context.Context, t *ticket.Ticket) error {
	const sql = `
		INSERT INTO tickets (
			departure_at, return_at, price, trip_duration, link,
			origin, destination,
			outbound_airline, outbound_flight_number,
			return_airline, return_flight_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, sql,
		t.DepartureAt, t.ReturnAt, t.Price, t.TripDuration, t.Link,
		t.Origin, t.Destination,
		t.OutboundAirline, t.OutboundFlight,
		t.ReturnAirline, t.ReturnFlight,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}
