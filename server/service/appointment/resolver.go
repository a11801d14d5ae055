package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/neurosphere-lab/lumi/store"
)

// DayAvailability is the open slot list for a single calendar day.
type DayAvailability struct {
	Day   string
	Slots []string
}

// CheckAvailability resolves the day expression to one or more concrete
// dates and reports their open slots in ascending time order. A specific
// date (YYYY-MM-DD) yields at most one entry; anything else is treated as
// a day pattern matched case-insensitively as a substring of the weekday
// name ("tues" matches Tuesday) over the next two weeks starting today.
// An empty result is a normal outcome.
func (s *Service) CheckAvailability(ctx context.Context, dayExpr string) ([]DayAvailability, error) {
	if day := NormalizeDate(dayExpr); day != nil {
		slots, err := s.store.ListOpenSlots(ctx, &store.FindOpenSlots{Day: *day})
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			return nil, nil
		}
		return []DayAvailability{{Day: *day, Slots: slots}}, nil
	}

	pattern := strings.ToLower(strings.TrimSpace(dayExpr))
	if pattern == "" {
		return nil, nil
	}
	return s.scanWeekday(ctx, pattern)
}

// scanWeekday walks the scan window day by day and collects open slots on
// days whose weekday name contains the pattern. Only today's entry is
// filtered to times after the current time of day; future matching days
// report their full open set.
func (s *Service) scanWeekday(ctx context.Context, pattern string) ([]DayAvailability, error) {
	now := s.now()
	today := now.Format(store.DayLayout)
	currentTime := now.Format(store.TimeLayout)

	var result []DayAvailability
	for offset := 0; offset < ScanWindowDays; offset++ {
		candidate := now.AddDate(0, 0, offset)
		if !strings.Contains(strings.ToLower(candidate.Weekday().String()), pattern) {
			continue
		}
		day := candidate.Format(store.DayLayout)
		find := &store.FindOpenSlots{Day: day}
		if day == today {
			after := currentTime
			find.After = &after
		}
		slots, err := s.store.ListOpenSlots(ctx, find)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		result = append(result, DayAvailability{Day: day, Slots: slots})
	}
	return result, nil
}

// FormatAvailability renders availability the way the chat surface shows
// it, one day per block with a human-readable date header.
func FormatAvailability(availability []DayAvailability) string {
	if len(availability) == 0 {
		return "No available appointments found."
	}
	var sb strings.Builder
	for i, day := range availability {
		if i > 0 {
			sb.WriteString("\n")
		}
		header := day.Day
		if t, err := time.Parse(store.DayLayout, day.Day); err == nil {
			header = t.Format("Monday, Jan 02")
		}
		sb.WriteString("Available on ")
		sb.WriteString(header)
		sb.WriteString(":")
		for _, slot := range day.Slots {
			sb.WriteString("\n- ")
			sb.WriteString(slot)
		}
	}
	return sb.String()
}
