package ticket

import "testing"

func TestNormalizeFlight(t *testing.T) {
	if got := NormalizeFlight(""); got != UnknownFlight {
		t.Errorf("empty flight number: got %q, want %q", got, UnknownFlight)
	}
	if got := NormalizeFlight("TS2410"); got != "TS2410" {
		t.Errorf("present flight number: got %q, want TS2410", got)
	}
}

func TestAirlineCode(t *testing.T) {
	cases := []struct {
		number string
		want   string
	}{
		{"AC301", "AC"},
		{"TS2410", "TS"},
		{UnknownFlight, "Un"},
		{"7", "7"},
		{"", ""},
	}
	for _, c := range cases {
		if got := AirlineCode(c.number); got != c.want {
			t.Errorf("AirlineCode(%q) = %q, want %q", c.number, got, c.want)
		}
	}
}

func TestKeyExcludesPriceAndLink(t *testing.T) {
	a := Ticket{
		DepartureAt:    "2025-07-25T08:00:00-04:00",
		ReturnAt:       "2025-08-07T11:30:00-07:00",
		Price:          780,
		Link:           "/search/YULYVR1",
		Origin:         "YUL",
		Destination:    "YVR",
		OutboundFlight: "AC301",
		ReturnFlight:   "AC306",
	}
	b := a
	b.Price = 512
	b.Link = "/search/YULYVR2"

	if a.Key() != b.Key() {
		t.Error("tickets differing only in price and link must share a key")
	}

	c := a
	c.ReturnFlight = "AC308"
	if a.Key() == c.Key() {
		t.Error("tickets with different return flights must not share a key")
	}
}
