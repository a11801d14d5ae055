package store

import (
	"context"

	"github.com/neurosphere-lab/lumi/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) UpsertUser(ctx context.Context, upsert *User) (*User, error) {
	return s.driver.UpsertUser(ctx, upsert)
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	return s.driver.GetUser(ctx, find)
}

func (s *Store) CreateChat(ctx context.Context, create *Chat) (*Chat, error) {
	return s.driver.CreateChat(ctx, create)
}

func (s *Store) ListChats(ctx context.Context, find *FindChat) ([]*Chat, error) {
	return s.driver.ListChats(ctx, find)
}

// GetChat gets a single chat or nil when absent.
func (s *Store) GetChat(ctx context.Context, find *FindChat) (*Chat, error) {
	list, err := s.driver.ListChats(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) CreateMessage(ctx context.Context, create *Message) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

func (s *Store) ListOpenSlots(ctx context.Context, find *FindOpenSlots) ([]string, error) {
	return s.driver.ListOpenSlots(ctx, find)
}

func (s *Store) BookSlot(ctx context.Context, book *BookSlot) (*Reservation, error) {
	return s.driver.BookSlot(ctx, book)
}

func (s *Store) CancelReservation(ctx context.Context, cancel *CancelReservation) error {
	return s.driver.CancelReservation(ctx, cancel)
}

func (s *Store) ListReservations(ctx context.Context, find *FindReservation) ([]*Reservation, error) {
	return s.driver.ListReservations(ctx, find)
}

func (s *Store) CreateFAQ(ctx context.Context, create *FAQ) (*FAQ, error) {
	return s.driver.CreateFAQ(ctx, create)
}

func (s *Store) FindFAQsWithoutEmbedding(ctx context.Context, limit int) ([]*FAQ, error) {
	return s.driver.FindFAQsWithoutEmbedding(ctx, limit)
}

func (s *Store) UpsertFAQEmbedding(ctx context.Context, upsert *FAQEmbedding) error {
	return s.driver.UpsertFAQEmbedding(ctx, upsert)
}

func (s *Store) SearchFAQsByVector(ctx context.Context, opts *VectorSearchOptions) ([]*FAQWithScore, error) {
	return s.driver.SearchFAQsByVector(ctx, opts)
}
