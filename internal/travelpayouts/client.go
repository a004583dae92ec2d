// Package travelpayouts talks to the Travelpayouts GraphQL pricing API.
// One query shape is supported: round-trip fares for an origin/destination
// pair inside a departure and return date window, cheapest first.
package travelpayouts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/apperr"
)

var (
	upstreamRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelpayouts_requests_total",
		Help: "The total number of requests sent to the pricing API",
	})
	upstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelpayouts_request_errors_total",
		Help: "The total number of failed pricing API requests",
	})
)

const (
	defaultCurrency = "cad"
	defaultLimit    = 5
	requestTimeout  = 30 * time.Second
)

// roundTripQuery is the single fixed query shape. User-supplied values
// never appear in this string; they travel in the GraphQL variables
// object, so a hostile origin or currency cannot break out of the query.
const roundTripQuery = `
query RoundTripFares(
  $origin: String!, $destination: String!,
  $departDateMin: Date!, $departDateMax: Date!,
  $returnDateMin: Date!, $returnDateMax: Date!,
  $currency: String!, $limit: Int!
) {
  prices_round_trip(
    params: {
      origin: $origin
      destination: $destination
      depart_date_min: $departDateMin
      depart_date_max: $departDateMax
      return_date_min: $returnDateMin
      return_date_max: $returnDateMax
    }
    currency: $currency
    sorting: VALUE_ASC
    no_lowcost: true
    paging: { limit: $limit }
  ) {
    departure_at
    return_at
    value
    trip_duration
    ticket_link
    origin
    destination
    segments {
      flights {
        aircraft
        number
        origin
        destination
        departure
        arrival
      }
    }
  }
}`

// Params are the search inputs. The six route/date fields are required;
// Currency and Limit fall back to "cad" and 5.
type Params struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartDateMin string `json:"departDateMin"`
	DepartDateMax string `json:"departDateMax"`
	ReturnDateMin string `json:"returnDateMin"`
	ReturnDateMax string `json:"returnDateMax"`
	Currency      string `json:"currency,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

// Missing lists the required fields that are absent, in a fixed order.
func (p Params) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"origin", p.Origin},
		{"destination", p.Destination},
		{"departDateMin", p.DepartDateMin},
		{"departDateMax", p.DepartDateMax},
		{"returnDateMin", p.ReturnDateMin},
		{"returnDateMax", p.ReturnDateMax},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// FlightLeg is one non-stop flight within a segment.
type FlightLeg struct {
	Aircraft    string `json:"aircraft"`
	Number      string `json:"number"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
}

// Segment is one direction of travel (outbound or return).
type Segment struct {
	Flights []FlightLeg `json:"flights"`
}

// RoundTrip is one priced round-trip fare as returned by the API.
type RoundTrip struct {
	DepartureAt  string    `json:"departure_at"`
	ReturnAt     string    `json:"return_at"`
	Value        int       `json:"value"`
	TripDuration int       `json:"trip_duration"`
	TicketLink   string    `json:"ticket_link"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Segments     []Segment `json:"segments"`
}

type Config struct {
	Endpoint string
	Token    string
}

type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		httpc:    &http.Client{Timeout: requestTimeout},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// SearchRoundTrips fetches up to Limit round-trip fares sorted by
// ascending price. An empty result list is not an error. Parameter and
// credential problems are reported before any network I/O.
func (c *Client) SearchRoundTrips(ctx context.Context, p Params) ([]RoundTrip, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return nil, apperr.Newf(apperr.Validation, "missing required search parameters: %s", strings.Join(missing, ", "))
	}
	if c.token == "" {
		return nil, apperr.New(apperr.Configuration, "TRAVELPAYOUTS_API_TOKEN is not set")
	}

	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	body, err := json.Marshal(gqlRequest{
		Query: roundTripQuery,
		Variables: map[string]any{
			"origin":        p.Origin,
			"destination":   p.Destination,
			"departDateMin": p.DepartDateMin,
			"departDateMax": p.DepartDateMax,
			"returnDateMin": p.ReturnDateMin,
			"returnDateMax": p.ReturnDateMax,
			"currency":      currency,
			"limit":         limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Token", c.token)

	upstreamRequests.Inc()

	resp, err := c.httpc.Do(req)
	if err != nil {
		upstreamErrors.Inc()
		return nil, apperr.Wrap(apperr.Upstream, "pricing API request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrors.Inc()
		return nil, apperr.Wrap(apperr.Upstream, "read pricing API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		upstreamErrors.Inc()
		return nil, apperr.Newf(apperr.Upstream, "pricing API returned %d: %s", resp.StatusCode, snippet(raw))
	}

	return decodeRoundTrips(raw)
}

// decodeRoundTrips validates the three envelope levels separately so a
// caller can tell which one the upstream dropped.
func decodeRoundTrips(raw []byte) ([]RoundTrip, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperr.New(apperr.Protocol, "empty response body")
	}

	var envelope struct {
		Data *struct {
			PricesRoundTrip *[]RoundTrip `json:"prices_round_trip"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperr.Wrap(apperr.Protocol, "response body is not valid JSON", err)
	}
	if envelope.Data == nil {
		return nil, apperr.New(apperr.Protocol, "response is missing the data envelope")
	}
	if envelope.Data.PricesRoundTrip == nil {
		return nil, apperr.New(apperr.Protocol, "response data is missing prices_round_trip")
	}

	return *envelope.Data.PricesRoundTrip, nil
}

func snippet(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
