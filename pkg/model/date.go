package model

import "time"

const DateLayout = "2006-01-02"

// DateKey renders a calendar date the way it is keyed in unavailable-slot
// maps and holiday sets.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
