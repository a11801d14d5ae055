package appointment

import (
	"strings"
	"time"

	"github.com/neurosphere-lab/lumi/store"
)

// NormalizeDate canonicalizes a date string in strict YYYY-MM-DD form.
// Anything else, including relative words like "tomorrow" that upstream
// prompting is supposed to resolve away, yields nil. Malformed input is an
// expected outcome, not a fault.
func NormalizeDate(raw string) *string {
	t, err := time.Parse(store.DayLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	normalized := t.Format(store.DayLayout)
	return &normalized
}

// NormalizeTime canonicalizes a time string in strict HH:MM 24-hour form.
// Natural phrasings like "10 am" yield nil.
func NormalizeTime(raw string) *string {
	t, err := time.Parse(store.TimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	normalized := t.Format(store.TimeLayout)
	return &normalized
}
