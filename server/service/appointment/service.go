package appointment

import (
	"context"
	"time"

	"github.com/neurosphere-lab/lumi/store"
)

// Booking retry behavior. The delay is a fixed backoff, applied only to
// transient store contention on the booking path.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// ScanWindowDays is the horizon for recurring weekday resolution,
	// starting today inclusive.
	ScanWindowDays = 14
)

// Store is the subset of store operations the scheduling service needs.
type Store interface {
	ListOpenSlots(ctx context.Context, find *store.FindOpenSlots) ([]string, error)
	BookSlot(ctx context.Context, book *store.BookSlot) (*store.Reservation, error)
	CancelReservation(ctx context.Context, cancel *store.CancelReservation) error
	ListReservations(ctx context.Context, find *store.FindReservation) ([]*store.Reservation, error)
}

// Service owns slot availability resolution, booking, cancellation and
// reservation listing over the shared appointment inventory.
type Service struct {
	store      Store
	now        func() time.Time
	maxRetries int
	retryDelay time.Duration
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the wall clock, used by recurring weekday resolution.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRetry overrides the booking retry policy.
func WithRetry(maxRetries int, retryDelay time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = maxRetries
		s.retryDelay = retryDelay
	}
}

// NewService creates a new scheduling service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		now:        time.Now,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now reports the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
