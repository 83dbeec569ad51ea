package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := map[string]Clock{
		"00:00": 0,
		"08:00": 480,
		"09:30": 570,
		"23:59": 1439,
	}
	for input, want := range cases {
		got, err := ParseClock(input)
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseClock(%q): expected %d, got %d", input, want, got)
		}
	}
}

func TestParseClock_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "8am", "25:00", "12:60", "12-30"} {
		if _, err := ParseClock(input); err == nil {
			t.Errorf("ParseClock(%q): expected error", input)
		}
	}
}

func TestClock_String(t *testing.T) {
	if got := Clock(570).String(); got != "09:30" {
		t.Errorf("expected 09:30, got %s", got)
	}
	if got := Clock(0).String(); got != "00:00" {
		t.Errorf("expected 00:00, got %s", got)
	}
}

func TestClock_At(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := Clock(570).At(date)

	if at.Hour() != 9 || at.Minute() != 30 {
		t.Errorf("expected 09:30, got %02d:%02d", at.Hour(), at.Minute())
	}
	if !at.Truncate(24 * time.Hour).Equal(date) {
		t.Errorf("expected date %s preserved, got %s", date, at)
	}
}

func TestClockOf_RoundTripsWithAt(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	c := Clock(615)
	if got := ClockOf(c.At(date)); got != c {
		t.Errorf("expected %d, got %d", c, got)
	}
}

func TestClock_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Start Clock `json:"start"`
	}

	data, err := json.Marshal(payload{Start: 570})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"start":"09:30"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Start != 570 {
		t.Errorf("expected 570, got %d", decoded.Start)
	}

	if err := json.Unmarshal([]byte(`{"start":570}`), &decoded); err == nil {
		t.Error("expected error for unquoted clock value")
	}
}
