package appointment

import (
	"context"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

// CancellationStatus classifies the terminal result of a cancellation.
type CancellationStatus int

const (
	// CancellationSuccess means the reservation was removed and the slot
	// released.
	CancellationSuccess CancellationStatus = iota
	// CancellationNotFound means no appointment exists at (day, time).
	CancellationNotFound
	// CancellationNotOwner means the appointment exists but the user holds
	// no reservation for it.
	CancellationNotOwner
	// CancellationFatalError means a store failure stopped the attempt.
	CancellationFatalError
)

// CancellationOutcome is the result of a Cancel call.
type CancellationOutcome struct {
	Status CancellationStatus
	Err    error
}

// Cancel removes the user's reservation at (day, time) and reopens the
// slot. Ownership mismatches and unknown slots are reported as distinct
// outcomes so the chat surface can word them differently.
func (s *Service) Cancel(ctx context.Context, cancel *store.CancelReservation) CancellationOutcome {
	err := s.store.CancelReservation(ctx, cancel)
	switch {
	case err == nil:
		return CancellationOutcome{Status: CancellationSuccess}
	case errors.Is(err, store.ErrAppointmentNotFound):
		return CancellationOutcome{Status: CancellationNotFound, Err: err}
	case errors.Is(err, store.ErrNotOwner):
		return CancellationOutcome{Status: CancellationNotOwner, Err: err}
	default:
		return CancellationOutcome{Status: CancellationFatalError, Err: err}
	}
}
