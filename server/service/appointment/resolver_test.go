package appointment

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/neurosphere-lab/lumi/store"
)

// fakeStore is an in-memory slot inventory for service tests.
type fakeStore struct {
	// openSlots maps day to ascending open times.
	openSlots map[string][]string
	// reservations returned by ListReservations.
	reservations []*store.Reservation

	bookErrs    []error
	bookCalls   int
	booked      []*store.BookSlot
	cancelErr   error
	cancelled   []*store.CancelReservation
	listErr     error
	slotQueries []*store.FindOpenSlots
}

func (f *fakeStore) ListOpenSlots(_ context.Context, find *store.FindOpenSlots) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	copied := *find
	if find.After != nil {
		after := *find.After
		copied.After = &after
	}
	f.slotQueries = append(f.slotQueries, &copied)

	slots := f.openSlots[find.Day]
	if find.After == nil {
		return slots, nil
	}
	var filtered []string
	for _, s := range slots {
		if s > *find.After {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (f *fakeStore) BookSlot(_ context.Context, book *store.BookSlot) (*store.Reservation, error) {
	f.bookCalls++
	if len(f.bookErrs) > 0 {
		err := f.bookErrs[0]
		f.bookErrs = f.bookErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.booked = append(f.booked, book)
	return &store.Reservation{
		ID:     int32(f.bookCalls),
		UserID: book.UserID,
		ChatID: book.ChatID,
		Day:    book.Day,
		Time:   book.Time,
	}, nil
}

func (f *fakeStore) CancelReservation(_ context.Context, cancel *store.CancelReservation) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, cancel)
	return nil
}

func (f *fakeStore) ListReservations(_ context.Context, _ *store.FindReservation) ([]*store.Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reservations, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckAvailabilitySpecificDate(t *testing.T) {
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-26": {"09:00", "14:00"},
	}}
	svc := NewService(fs)

	availability, err := svc.CheckAvailability(context.Background(), "2025-04-26")
	require.NoError(t, err)
	require.Len(t, availability, 1)
	require.Equal(t, "2025-04-26", availability[0].Day)
	require.Equal(t, []string{"09:00", "14:00"}, availability[0].Slots)
}

func TestCheckAvailabilitySpecificDateEmpty(t *testing.T) {
	fs := &fakeStore{openSlots: map[string][]string{}}
	svc := NewService(fs)

	availability, err := svc.CheckAvailability(context.Background(), "2025-04-26")
	require.NoError(t, err)
	require.Empty(t, availability)
}

func TestCheckAvailabilityWeekdayScan(t *testing.T) {
	// Monday afternoon. The scan must keep today's remaining slots and
	// next Monday's full open set, including its morning times.
	now := time.Date(2025, 4, 21, 14, 0, 0, 0, time.UTC)
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-21": {"09:00", "13:00", "15:00"},
		"2025-04-28": {"09:00", "16:00"},
	}}
	svc := NewService(fs, WithClock(fixedClock(now)))

	availability, err := svc.CheckAvailability(context.Background(), "Monday")
	require.NoError(t, err)
	require.Len(t, availability, 2)

	require.Equal(t, "2025-04-21", availability[0].Day)
	require.Equal(t, []string{"15:00"}, availability[0].Slots)

	require.Equal(t, "2025-04-28", availability[1].Day)
	require.Equal(t, []string{"09:00", "16:00"}, availability[1].Slots)

	// The time-of-day filter applies only to today's query.
	for _, q := range fs.slotQueries {
		if q.Day == "2025-04-21" {
			require.NotNil(t, q.After)
			require.Equal(t, "14:00", *q.After)
		} else {
			require.Nil(t, q.After)
		}
	}
}

func TestCheckAvailabilityWeekdayCaseInsensitive(t *testing.T) {
	now := time.Date(2025, 4, 21, 8, 0, 0, 0, time.UTC)
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-27": {"10:00"},
	}}
	svc := NewService(fs, WithClock(fixedClock(now)))

	availability, err := svc.CheckAvailability(context.Background(), "sUnDaY")
	require.NoError(t, err)
	require.Len(t, availability, 1)
	require.Equal(t, "2025-04-27", availability[0].Day)
}

func TestCheckAvailabilityWeekdayPartialName(t *testing.T) {
	// A day pattern is matched as a substring of the weekday name, so
	// "tues" finds Tuesday slots.
	now := time.Date(2025, 4, 21, 14, 0, 0, 0, time.UTC)
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-22": {"10:00"},
		"2025-04-29": {"11:00"},
	}}
	svc := NewService(fs, WithClock(fixedClock(now)))

	availability, err := svc.CheckAvailability(context.Background(), "tues")
	require.NoError(t, err)
	require.Len(t, availability, 2)
	require.Equal(t, "2025-04-22", availability[0].Day)
	require.Equal(t, []string{"10:00"}, availability[0].Slots)
	require.Equal(t, "2025-04-29", availability[1].Day)
}

func TestCheckAvailabilityEmptyDayPattern(t *testing.T) {
	// A blank pattern must not match every day in the window.
	now := time.Date(2025, 4, 21, 8, 0, 0, 0, time.UTC)
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-22": {"10:00"},
	}}
	svc := NewService(fs, WithClock(fixedClock(now)))

	for _, expr := range []string{"", "   "} {
		availability, err := svc.CheckAvailability(context.Background(), expr)
		require.NoError(t, err)
		require.Empty(t, availability)
	}
	require.Empty(t, fs.slotQueries)
}

func TestCheckAvailabilityWindowBound(t *testing.T) {
	// Only matching days inside the two-week window are scanned.
	now := time.Date(2025, 4, 21, 8, 0, 0, 0, time.UTC)
	fs := &fakeStore{openSlots: map[string][]string{
		"2025-04-21": {"09:00"},
		"2025-04-28": {"09:00"},
		"2025-05-05": {"09:00"}, // third Monday, outside the window
	}}
	svc := NewService(fs, WithClock(fixedClock(now)))

	availability, err := svc.CheckAvailability(context.Background(), "Monday")
	require.NoError(t, err)

	var days []string
	for _, a := range availability {
		days = append(days, a.Day)
	}
	sort.Strings(days)
	require.Equal(t, []string{"2025-04-21", "2025-04-28"}, days)
}

func TestCheckAvailabilityUnparseableDay(t *testing.T) {
	fs := &fakeStore{}
	svc := NewService(fs)

	availability, err := svc.CheckAvailability(context.Background(), "someday soon")
	require.NoError(t, err)
	require.Empty(t, availability)
	require.Empty(t, fs.slotQueries)
}

func TestCheckAvailabilityStoreError(t *testing.T) {
	fs := &fakeStore{listErr: errors.New("connection refused")}
	svc := NewService(fs)

	_, err := svc.CheckAvailability(context.Background(), "2025-04-26")
	require.Error(t, err)
}

func TestFormatAvailability(t *testing.T) {
	out := FormatAvailability([]DayAvailability{
		{Day: "2025-04-21", Slots: []string{"15:00"}},
		{Day: "2025-04-28", Slots: []string{"09:00", "16:00"}},
	})
	require.Equal(t, "Available on Monday, Apr 21:\n- 15:00\nAvailable on Monday, Apr 28:\n- 09:00\n- 16:00", out)

	require.Equal(t, "No available appointments found.", FormatAvailability(nil))
}
