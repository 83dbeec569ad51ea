// Package sanitizer normalizes caller-supplied identifiers before they reach
// the session store or the database. IDs arrive from chat transports and URL
// paths, so they may carry stray whitespace, control characters, or
// inconsistent casing.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

const maxIDLength = 64

var reMultiHash = regexp.MustCompile(`#+`)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(s)
}

func stripControl(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

func truncateID(s string) string {
	if len(s) > maxIDLength {
		return s[:maxIDLength]
	}
	return s
}

// SanitizeID cleans a user or equipment identifier. Case is preserved since
// upstream directories treat IDs as case-sensitive.
func SanitizeID(input string) string {
	p := Pipeline{
		trimSpace,
		stripControl,
		truncateID,
	}
	return p.Apply(input)
}

// SanitizeChannel normalizes an approval channel name to a single leading
// hash and lowercase, the form chat transports expect.
func SanitizeChannel(input string) string {
	p := Pipeline{
		trimSpace,
		stripControl,
		lower,
		func(s string) string { return reMultiHash.ReplaceAllString(s, "#") },
		func(s string) string {
			if s == "" || strings.HasPrefix(s, "#") {
				return s
			}
			return "#" + s
		},
	}
	return p.Apply(input)
}

// NormalizeDecision lowercases a decision verb so "Approve" and "approve"
// mean the same thing.
func NormalizeDecision(input string) string {
	p := Pipeline{
		trimSpace,
		lower,
	}
	return p.Apply(input)
}
