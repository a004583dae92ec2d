package ticket

import "time"

// UnknownFlight is stored when the upstream record carries no flight number
// for a leg. The placeholder participates in duplicate detection like any
// real flight number.
const UnknownFlight = "Unknown"

// Ticket is one observed round-trip fare. Records are insert-only: never
// updated, never deleted.
type Ticket struct {
	ID              int64     `json:"id,omitempty"`
	DepartureAt     string    `json:"departure_at"` // ISO 8601, as received
	ReturnAt        string    `json:"return_at"`
	Price           int       `json:"price"`
	TripDuration    int       `json:"trip_duration"`
	Link            string    `json:"link"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	OutboundAirline string    `json:"outbound_airline"`
	OutboundFlight  string    `json:"outbound_flight_number"`
	ReturnAirline   string    `json:"return_airline"`
	ReturnFlight    string    `json:"return_flight_number"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Key identifies a ticket for duplicate detection. Price and link are
// deliberately excluded: a re-observation of the same flight pair at a new
// price is treated as a duplicate and dropped.
type Key struct {
	DepartureAt    string
	ReturnAt       string
	OutboundFlight string
	ReturnFlight   string
	Origin         string
	Destination    string
}

func (t *Ticket) Key() Key {
	return Key{
		DepartureAt:    t.DepartureAt,
		ReturnAt:       t.ReturnAt,
		OutboundFlight: t.OutboundFlight,
		ReturnFlight:   t.ReturnFlight,
		Origin:         t.Origin,
		Destination:    t.Destination,
	}
}

// NormalizeFlight maps an absent flight number to the UnknownFlight
// placeholder.
func NormalizeFlight(number string) string {
	if number == "" {
		return UnknownFlight
	}
	return number
}

// AirlineCode derives the carrier code as the first two characters of the
// flight number. For the UnknownFlight placeholder this yields "Un".
func AirlineCode(flightNumber string) string {
	if len(flightNumber) < 2 {
		return flightNumber
	}
	return flightNumber[:2]
}
