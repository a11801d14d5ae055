package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ReservationResponse struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type ListReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ListReservations returns the user's reservations in ascending day/time
// order, straight from the scheduling service.
// GET /api/v1/users/:userID/reservations
func (s *APIV1Service) ListReservations(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userID")

	reservations, err := s.Scheduler.ListReservations(ctx, userID)
	if err != nil {
		slog.Error("failed to list reservations", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch reservations"})
	}

	resp := ListReservationsResponse{Reservations: []ReservationResponse{}}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, ReservationResponse{Day: r.Day, Time: r.Time})
	}
	return c.JSON(http.StatusOK, resp)
}
