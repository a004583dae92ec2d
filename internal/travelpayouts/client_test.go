package travelpayouts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/apperr"
)

func validParams() Params {
	return Params{
		Origin:        "YUL",
		Destination:   "YVR",
		DepartDateMin: "2025-07-25",
		DepartDateMax: "2025-07-29",
		ReturnDateMin: "2025-08-07",
		ReturnDateMax: "2025-08-11",
	}
}

func TestSearchRoundTrips_MissingParamsSkipNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "tok"})

	p := validParams()
	p.ReturnDateMax = ""
	p.Origin = ""

	_, err := c.SearchRoundTrips(context.Background(), p)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "origin") || !strings.Contains(err.Error(), "returnDateMax") {
		t.Errorf("error should name the missing fields, got %q", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network calls, got %d", calls.Load())
	}
}

func TestSearchRoundTrips_MissingTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: ""})

	_, err := c.SearchRoundTrips(context.Background(), validParams())
	if !apperr.IsKind(err, apperr.Configuration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network calls, got %d", calls.Load())
	}
}

func TestSearchRoundTrips_SendsVariablesAndHeader(t *testing.T) {
	var got gqlRequest
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-Access-Token")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"data":{"prices_round_trip":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "secret-token"})

	trips, err := c.SearchRoundTrips(context.Background(), validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 0 {
		t.Errorf("expected empty result, got %d trips", len(trips))
	}
	if header != "secret-token" {
		t.Errorf("X-Access-Token = %q, want secret-token", header)
	}
	if !strings.Contains(got.Query, "prices_round_trip") {
		t.Error("query should request prices_round_trip")
	}
	if strings.Contains(got.Query, "YUL") {
		t.Error("user input must not be interpolated into the query string")
	}
	if got.Variables["origin"] != "YUL" || got.Variables["destination"] != "YVR" {
		t.Errorf("route variables not set: %v", got.Variables)
	}
	if got.Variables["currency"] != "cad" {
		t.Errorf("currency default not applied: %v", got.Variables["currency"])
	}
	if got.Variables["limit"] != float64(5) {
		t.Errorf("limit default not applied: %v", got.Variables["limit"])
	}
}

func TestSearchRoundTrips_EnvelopeValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", "empty response body"},
		{"non-JSON body", "<html>oops</html>", "not valid JSON"},
		{"missing data", `{"errors":[{"message":"nope"}]}`, "missing the data envelope"},
		{"null data", `{"data":null}`, "missing the data envelope"},
		{"missing result field", `{"data":{"something_else":[]}}`, "missing prices_round_trip"},
		{"null result field", `{"data":{"prices_round_trip":null}}`, "missing prices_round_trip"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			cl := NewClient(Config{Endpoint: srv.URL, Token: "tok"})
			_, err := cl.SearchRoundTrips(context.Background(), validParams())
			if !apperr.IsKind(err, apperr.Protocol) {
				t.Fatalf("expected protocol error, got %v", err)
			}
			if !strings.Contains(err.Error(), c.wantMsg) {
				t.Errorf("error %q should mention %q", err, c.wantMsg)
			}
		})
	}
}

func TestSearchRoundTrips_Non200IsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "tok"})
	_, err := c.SearchRoundTrips(context.Background(), validParams())
	if !apperr.IsKind(err, apperr.Upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code, got %q", err)
	}
}

func TestSearchRoundTrips_DecodesTickets(t *testing.T) {
	const body = `{"data":{"prices_round_trip":[
		{"departure_at":"2025-07-25T08:00:00-04:00","return_at":"2025-08-07T11:30:00-07:00",
		 "value":512,"trip_duration":330,"ticket_link":"/search/YULVR1",
		 "origin":"YUL","destination":"YVR",
		 "segments":[
			{"flights":[{"aircraft":"321","number":"AC301","origin":"YUL","destination":"YVR",
				"departure":"2025-07-25T08:00:00-04:00","arrival":"2025-07-25T10:30:00-07:00"}]},
			{"flights":[{"aircraft":"77W","number":"AC306","origin":"YVR","destination":"YUL",
				"departure":"2025-08-07T11:30:00-07:00","arrival":"2025-08-07T19:30:00-04:00"}]}
		]}
	]}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "tok"})
	trips, err := c.SearchRoundTrips(context.Background(), validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	trip := trips[0]
	if trip.Value != 512 || trip.Origin != "YUL" || trip.Destination != "YVR" {
		t.Errorf("unexpected trip: %+v", trip)
	}
	if len(trip.Segments) != 2 || len(trip.Segments[0].Flights) != 1 {
		t.Fatalf("unexpected segment shape: %+v", trip.Segments)
	}
	if trip.Segments[1].Flights[0].Number != "AC306" {
		t.Errorf("return leg number = %q, want AC306", trip.Segments[1].Flights[0].Number)
	}
}
