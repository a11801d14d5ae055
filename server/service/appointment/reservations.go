package appointment

import (
	"context"
	"strings"

	"github.com/neurosphere-lab/lumi/store"
)

// ListReservations returns the user's reservations in ascending (day, time)
// order. An empty list is a normal outcome.
func (s *Service) ListReservations(ctx context.Context, userID string) ([]*store.Reservation, error) {
	return s.store.ListReservations(ctx, &store.FindReservation{UserID: &userID})
}

// FormatReservations renders a reservation list the way the chat surface
// shows it.
func FormatReservations(reservations []*store.Reservation) string {
	if len(reservations) == 0 {
		return "You have no current reservations."
	}
	var sb strings.Builder
	sb.WriteString("Your reservations:")
	for _, r := range reservations {
		sb.WriteString("\n- ")
		sb.WriteString(r.Day)
		sb.WriteString(" at ")
		sb.WriteString(r.Time)
	}
	return sb.String()
}
