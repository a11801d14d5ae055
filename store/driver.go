package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	UpsertUser(ctx context.Context, upsert *User) (*User, error)
	GetUser(ctx context.Context, find *FindUser) (*User, error)

	// Chat model related methods.
	CreateChat(ctx context.Context, create *Chat) (*Chat, error)
	ListChats(ctx context.Context, find *FindChat) ([]*Chat, error)

	// Message model related methods.
	CreateMessage(ctx context.Context, create *Message) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)

	// ListOpenSlots lists unbooked appointment times for a day, ascending.
	ListOpenSlots(ctx context.Context, find *FindOpenSlots) ([]string, error)

	// BookSlot atomically books the appointment at (day, time) and inserts a
	// reservation. The appointment row is locked for the duration of the
	// transaction so concurrent attempts for the same slot serialize.
	// Returns ErrSlotUnavailable when the slot is absent or already booked,
	// ErrContention on a transient lock conflict or deadlock.
	BookSlot(ctx context.Context, book *BookSlot) (*Reservation, error)

	// CancelReservation atomically deletes the reservation and reopens the
	// appointment. Returns ErrAppointmentNotFound or ErrNotOwner.
	CancelReservation(ctx context.Context, cancel *CancelReservation) error

	// ListReservations lists reservations ascending by (day, time).
	ListReservations(ctx context.Context, find *FindReservation) ([]*Reservation, error)

	// FAQ model related methods.
	CreateFAQ(ctx context.Context, create *FAQ) (*FAQ, error)
	FindFAQsWithoutEmbedding(ctx context.Context, limit int) ([]*FAQ, error)
	UpsertFAQEmbedding(ctx context.Context, upsert *FAQEmbedding) error
	SearchFAQsByVector(ctx context.Context, opts *VectorSearchOptions) ([]*FAQWithScore, error)
}
