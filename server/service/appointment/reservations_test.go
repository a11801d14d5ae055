package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurosphere-lab/lumi/store"
)

func TestListReservations(t *testing.T) {
	fs := &fakeStore{reservations: []*store.Reservation{
		{ID: 1, UserID: "user-1", Day: "2025-04-21", Time: "09:00"},
		{ID: 2, UserID: "user-1", Day: "2025-04-21", Time: "15:00"},
		{ID: 3, UserID: "user-1", Day: "2025-04-28", Time: "10:00"},
	}}
	svc := NewService(fs)

	reservations, err := svc.ListReservations(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, reservations, 3)
}

func TestFormatReservations(t *testing.T) {
	out := FormatReservations([]*store.Reservation{
		{Day: "2025-04-21", Time: "09:00"},
		{Day: "2025-04-28", Time: "10:00"},
	})
	require.Equal(t, "Your reservations:\n- 2025-04-21 at 09:00\n- 2025-04-28 at 10:00", out)
}

func TestFormatReservationsEmpty(t *testing.T) {
	require.Equal(t, "You have no current reservations.", FormatReservations(nil))
}
