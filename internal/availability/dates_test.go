package availability

import (
	"testing"
	"time"

	"gearbook/pkg/model"
)

var weekdaysMonToFri = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date literal %q: %v", s, err)
	}
	return d
}

func TestNextBookableDates_SkipsHolidaysAndWeekends(t *testing.T) {
	// 2025-12-24 is a Wednesday; 12-25 is a holiday, 12-27/28 a weekend.
	start := date(t, "2025-12-24")
	holidays := map[string]bool{"2025-12-25": true}

	dates, err := NextBookableDates(start, 3, weekdaysMonToFri, holidays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2025-12-26", "2025-12-29", "2025-12-30"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d (%v)", len(want), len(dates), dates)
	}
	for i, w := range want {
		if got := model.DateKey(dates[i]); got != w {
			t.Errorf("date %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestNextBookableDates_ReturnsExactlyMaxDays(t *testing.T) {
	start := date(t, "2026-03-02")
	dates, err := NextBookableDates(start, 10, weekdaysMonToFri, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 10 {
		t.Fatalf("expected 10 dates, got %d", len(dates))
	}
	for _, d := range dates {
		if !d.After(start) {
			t.Errorf("date %s is not after start %s", model.DateKey(d), model.DateKey(start))
		}
		if !weekdaysMonToFri[ISOWeekday(d)] {
			t.Errorf("date %s has disallowed weekday %d", model.DateKey(d), ISOWeekday(d))
		}
	}
}

func TestNextBookableDates_TodayIsNeverOffered(t *testing.T) {
	start := date(t, "2026-03-02") // a Monday
	all := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}

	dates, err := NextBookableDates(start, 1, all, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.DateKey(dates[0]) != "2026-03-03" {
		t.Errorf("expected first bookable date 2026-03-03, got %s", model.DateKey(dates[0]))
	}
}

func TestNextBookableDates_SingleAllowedWeekday(t *testing.T) {
	start := date(t, "2026-03-02")
	onlySunday := map[int]bool{7: true}

	dates, err := NextBookableDates(start, 2, onlySunday, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range dates {
		if d.Weekday() != time.Sunday {
			t.Errorf("expected Sunday, got %s", d.Weekday())
		}
	}
}

func TestNextBookableDates_EmptyWeekdaySetFails(t *testing.T) {
	if _, err := NextBookableDates(date(t, "2026-03-02"), 3, nil, nil); err == nil {
		t.Fatal("expected error for empty weekday set")
	}
}

func TestNextBookableDates_NonPositiveMaxDaysFails(t *testing.T) {
	if _, err := NextBookableDates(date(t, "2026-03-02"), 0, weekdaysMonToFri, nil); err == nil {
		t.Fatal("expected error for zero max days")
	}
}

func TestISOWeekday(t *testing.T) {
	cases := map[string]int{
		"2026-03-02": 1, // Monday
		"2026-03-07": 6, // Saturday
		"2026-03-08": 7, // Sunday
	}
	for day, want := range cases {
		if got := ISOWeekday(date(t, day)); got != want {
			t.Errorf("%s: expected weekday %d, got %d", day, want, got)
		}
	}
}
