package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/apperr"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/domain/ticket"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
)

var (
	ticketsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_tickets_inserted_total",
		Help: "The total number of new tickets persisted",
	})
	ticketsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_tickets_duplicate_total",
		Help: "The total number of tickets skipped as duplicates",
	})
	ticketsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_tickets_failed_total",
		Help: "The total number of tickets that failed to persist",
	})
)

// TicketStore is the persistence surface the writer needs.
type TicketStore interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, k ticket.Key) (bool, error)
	Insert(ctx context.Context, t *ticket.Ticket) error
}

// EventPublisher receives a message per newly inserted ticket. A nil
// publisher disables eventing.
type EventPublisher interface {
	SendMessage(ctx context.Context, key, value []byte) error
}

type OutcomeStatus string

const (
	OutcomeInserted  OutcomeStatus = "inserted"
	OutcomeDuplicate OutcomeStatus = "duplicate"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome records what happened to one ticket during a save run.
type Outcome struct {
	Ticket ticket.Ticket `json:"ticket"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

type Stats struct {
	NewTickets int `json:"newTickets"`
	Duplicates int `json:"duplicates"`
}

type SaveTickets struct {
	store  TicketStore
	events EventPublisher
}

func NewSaveTickets(store TicketStore, events EventPublisher) *SaveTickets {
	return &SaveTickets{store: store, events: events}
}

// Execute persists every trip not already stored, one at a time. A failure
// on a single record is logged and recorded in its outcome; the batch
// continues. Only an unreachable store aborts the whole run.
func (uc *SaveTickets) Execute(ctx context.Context, trips []travelpayouts.RoundTrip) ([]Outcome, Stats, error) {
	if err := uc.store.Ping(ctx); err != nil {
		return nil, Stats{}, apperr.Wrap(apperr.StorageUnavailable, "ticket store is unreachable", err)
	}

	outcomes := make([]Outcome, 0, len(trips))
	var stats Stats

	for _, trip := range trips {
		t := buildTicket(trip)

		exists, err := uc.store.Exists(ctx, t.Key())
		if err != nil {
			recErr := apperr.Wrap(apperr.Record, "lookup ticket", err)
			slog.Error("ticket lookup failed",
				"origin", t.Origin, "destination", t.Destination,
				"outbound_flight", t.OutboundFlight, "error", recErr)
			ticketsFailed.Inc()
			outcomes = append(outcomes, Outcome{Ticket: t, Status: OutcomeFailed, Reason: recErr.Error()})
			continue
		}
		if exists {
			ticketsDuplicate.Inc()
			stats.Duplicates++
			outcomes = append(outcomes, Outcome{Ticket: t, Status: OutcomeDuplicate})
			continue
		}

		if err := uc.store.Insert(ctx, &t); err != nil {
			recErr := apperr.Wrap(apperr.Record, "insert ticket", err)
			slog.Error("ticket insert failed",
				"origin", t.Origin, "destination", t.Destination,
				"outbound_flight", t.OutboundFlight, "error", recErr)
			ticketsFailed.Inc()
			outcomes = append(outcomes, Outcome{Ticket: t, Status: OutcomeFailed, Reason: recErr.Error()})
			continue
		}

		ticketsInserted.Inc()
		stats.NewTickets++
		outcomes = append(outcomes, Outcome{Ticket: t, Status: OutcomeInserted})

		uc.publishDiscovered(ctx, t)
	}

	return outcomes, stats, nil
}

// buildTicket flattens one upstream trip into the stored record shape.
// Absent legs degrade to the Unknown placeholder instead of failing the
// batch: one-way-shaped data at the round-trip endpoint is still stored.
func buildTicket(trip travelpayouts.RoundTrip) ticket.Ticket {
	outbound := firstLeg(trip.Segments, 0)
	ret := firstLeg(trip.Segments, 1)

	outboundNumber := ticket.NormalizeFlight(outbound.Number)
	returnNumber := ticket.NormalizeFlight(ret.Number)

	origin := trip.Origin
	if origin == "" {
		origin = outbound.Origin
	}
	destination := trip.Destination
	if destination == "" {
		destination = outbound.Destination
	}

	return ticket.Ticket{
		DepartureAt:     trip.DepartureAt,
		ReturnAt:        trip.ReturnAt,
		Price:           trip.Value,
		TripDuration:    trip.TripDuration,
		Link:            trip.TicketLink,
		Origin:          origin,
		Destination:     destination,
		OutboundAirline: ticket.AirlineCode(outboundNumber),
		OutboundFlight:  outboundNumber,
		ReturnAirline:   ticket.AirlineCode(returnNumber),
		ReturnFlight:    returnNumber,
	}
}

func firstLeg(segments []travelpayouts.Segment, i int) travelpayouts.FlightLeg {
	if i >= len(segments) || len(segments[i].Flights) == 0 {
		return travelpayouts.FlightLeg{}
	}
	return segments[i].Flights[0]
}

type discoveredEvent struct {
	EventID    string        `json:"event_id"`
	EventType  string        `json:"event_type"`
	Ticket     ticket.Ticket `json:"ticket"`
	ObservedAt time.Time     `json:"observed_at"`
}

func (uc *SaveTickets) publishDiscovered(ctx context.Context, t ticket.Ticket) {
	if uc.events == nil {
		return
	}

	payload, err := json.Marshal(discoveredEvent{
		EventID:    uuid.NewString(),
		EventType:  "ticket.discovered",
		Ticket:     t,
		ObservedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("marshal ticket event", "error", err)
		return
	}

	// Route as key so one origin/destination pair stays on one partition.
	if err := uc.events.SendMessage(ctx, []byte(t.Origin+t.Destination), payload); err != nil {
		slog.Error("publish ticket event", "error", err)
	}
}
