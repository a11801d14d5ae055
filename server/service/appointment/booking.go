package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

// BookingStatus classifies the terminal result of a booking attempt.
type BookingStatus int

const (
	// BookingSuccess means the reservation was created.
	BookingSuccess BookingStatus = iota
	// BookingSlotUnavailable means the slot does not exist or was already
	// taken. Never retried.
	BookingSlotUnavailable
	// BookingTransientFailure means every retry hit store contention.
	BookingTransientFailure
	// BookingFatalError means a non-transient store failure stopped the
	// attempt immediately.
	BookingFatalError
)

// BookingOutcome is the result of a Book call. Err is set only for the
// failure statuses; Reservation only on success.
type BookingOutcome struct {
	Status      BookingStatus
	Reservation *store.Reservation
	Err         error
}

// Book attempts to reserve the (day, time) slot for the user. Contention
// is retried up to the configured maximum with a fixed delay between
// attempts; an unavailable slot and fatal store errors end the attempt at
// once.
func (s *Service) Book(ctx context.Context, book *store.BookSlot) BookingOutcome {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		reservation, err := s.store.BookSlot(ctx, book)
		if err == nil {
			return BookingOutcome{Status: BookingSuccess, Reservation: reservation}
		}
		if errors.Is(err, store.ErrSlotUnavailable) {
			return BookingOutcome{Status: BookingSlotUnavailable, Err: err}
		}
		if !errors.Is(err, store.ErrContention) {
			return BookingOutcome{Status: BookingFatalError, Err: err}
		}

		lastErr = err
		slog.Warn("booking hit store contention",
			"day", book.Day,
			"time", book.Time,
			"attempt", attempt,
			"max_retries", s.maxRetries)
		if attempt < s.maxRetries {
			if err := sleepContext(ctx, s.retryDelay); err != nil {
				return BookingOutcome{Status: BookingFatalError, Err: err}
			}
		}
	}
	return BookingOutcome{
		Status: BookingTransientFailure,
		Err:    errors.Wrapf(lastErr, "booking failed after %d attempts", s.maxRetries),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
