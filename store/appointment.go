package store

import (
	"github.com/pkg/errors"
)

// Canonical value formats accepted by the appointment tables.
// Day is a calendar date, Time is a minute-precision time of day.
const (
	DayLayout  = "2006-01-02"
	TimeLayout = "15:04"
)

// Sentinel errors returned by the booking and cancellation driver methods.
// They are business outcomes, not faults; callers match them with errors.Is.
var (
	// ErrSlotUnavailable means the (day, time) slot does not exist or is
	// already booked. Legitimate outcome, never retried.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrAppointmentNotFound means no appointment exists at (day, time).
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotOwner means the appointment exists but the user holds no
	// reservation for it.
	ErrNotOwner = errors.New("reservation not owned by user")

	// ErrContention signals a transient store-level conflict (lock wait,
	// deadlock, serialization failure) expected to clear on retry.
	ErrContention = errors.New("transient store contention")
)

// Appointment is a bookable unit of the slot inventory. Rows are pre-seeded
// externally; the server only toggles IsBooked.
type Appointment struct {
	ID       int32
	Day      string // DayLayout
	Time     string // TimeLayout
	IsBooked bool
}

// Reservation binds a user/chat to a booked appointment. Day and Time are
// denormalized copies of the appointment's values at booking time.
type Reservation struct {
	ID            int32
	UserID        string
	ChatID        string
	AppointmentID int32
	Day           string
	Time          string
}

// FindOpenSlots is the find condition for unbooked appointment times.
type FindOpenSlots struct {
	Day string
	// After excludes times at or before the given time of day when set.
	After *string
}

// BookSlot is the request for the atomic booking transaction.
type BookSlot struct {
	UserID string
	ChatID string
	Day    string
	Time   string
}

// CancelReservation is the request for the atomic cancellation transaction.
type CancelReservation struct {
	UserID string
	Day    string
	Time   string
}

// FindReservation is the find condition for reservations.
type FindReservation struct {
	UserID *string
}
