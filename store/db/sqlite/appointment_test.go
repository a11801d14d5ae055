package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/neurosphere-lab/lumi/internal/profile"
	"github.com/neurosphere-lab/lumi/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   dir,
		DSN:    filepath.Join(dir, "lumi_test.db"),
	}

	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedSlot(t *testing.T, st *store.Store, day, tm string) {
	t.Helper()
	_, err := st.GetDriver().GetDB().ExecContext(context.Background(),
		`INSERT INTO appointments (day, time) VALUES (?, ?)`, day, tm)
	require.NoError(t, err)
}

func seedUser(t *testing.T, st *store.Store, id string) {
	t.Helper()
	_, err := st.UpsertUser(context.Background(), &store.User{ID: id})
	require.NoError(t, err)
}

func countRows(t *testing.T, st *store.Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, st.GetDriver().GetDB().QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func TestBookSlotConcurrentMutualExclusion(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedSlot(t, st, "2025-04-26", "14:00")

	const attempts = 8
	for i := 0; i < attempts; i++ {
		seedUser(t, st, fmt.Sprintf("user-%d", i))
	}

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.BookSlot(ctx, &store.BookSlot{
				UserID: fmt.Sprintf("user-%d", i),
				ChatID: "chat-1",
				Day:    "2025-04-26",
				Time:   "14:00",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.True(t, errors.Is(err, store.ErrSlotUnavailable) || errors.Is(err, store.ErrContention),
			"unexpected booking error: %v", err)
	}
	require.Equal(t, 1, successes)

	require.Equal(t, 1, countRows(t, st, `SELECT COUNT(*) FROM reservations`))
	require.Equal(t, 1, countRows(t, st,
		`SELECT COUNT(*) FROM appointments WHERE day = ? AND time = ? AND is_booked = 1`, "2025-04-26", "14:00"))
}

func TestBookThenCancelRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedSlot(t, st, "2025-04-26", "14:00")
	seedUser(t, st, "user-1")
	seedUser(t, st, "user-2")

	reservation, err := st.BookSlot(ctx, &store.BookSlot{
		UserID: "user-1",
		ChatID: "chat-1",
		Day:    "2025-04-26",
		Time:   "14:00",
	})
	require.NoError(t, err)
	require.Equal(t, "2025-04-26", reservation.Day)
	require.Equal(t, "14:00", reservation.Time)

	// The booked slot is gone for everyone else.
	_, err = st.BookSlot(ctx, &store.BookSlot{
		UserID: "user-2",
		Day:    "2025-04-26",
		Time:   "14:00",
	})
	require.ErrorIs(t, err, store.ErrSlotUnavailable)

	require.NoError(t, st.CancelReservation(ctx, &store.CancelReservation{
		UserID: "user-1",
		Day:    "2025-04-26",
		Time:   "14:00",
	}))

	// Cancellation reopens the slot and removes the reservation row.
	require.Equal(t, 0, countRows(t, st, `SELECT COUNT(*) FROM reservations`))
	require.Equal(t, 1, countRows(t, st,
		`SELECT COUNT(*) FROM appointments WHERE day = ? AND time = ? AND is_booked = 0`, "2025-04-26", "14:00"))

	slots, err := st.ListOpenSlots(ctx, &store.FindOpenSlots{Day: "2025-04-26"})
	require.NoError(t, err)
	require.Equal(t, []string{"14:00"}, slots)

	// The reopened slot is bookable again.
	_, err = st.BookSlot(ctx, &store.BookSlot{
		UserID: "user-2",
		Day:    "2025-04-26",
		Time:   "14:00",
	})
	require.NoError(t, err)
}

func TestCancelReservationErrors(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedSlot(t, st, "2025-04-26", "14:00")
	seedUser(t, st, "user-1")
	seedUser(t, st, "user-2")

	err := st.CancelReservation(ctx, &store.CancelReservation{
		UserID: "user-1",
		Day:    "2025-04-27",
		Time:   "09:00",
	})
	require.ErrorIs(t, err, store.ErrAppointmentNotFound)

	_, err = st.BookSlot(ctx, &store.BookSlot{
		UserID: "user-1",
		Day:    "2025-04-26",
		Time:   "14:00",
	})
	require.NoError(t, err)

	// Another user cannot cancel a reservation they do not hold.
	err = st.CancelReservation(ctx, &store.CancelReservation{
		UserID: "user-2",
		Day:    "2025-04-26",
		Time:   "14:00",
	})
	require.ErrorIs(t, err, store.ErrNotOwner)

	require.Equal(t, 1, countRows(t, st, `SELECT COUNT(*) FROM reservations`))
}
