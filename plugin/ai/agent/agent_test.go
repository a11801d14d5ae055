package agent

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/plugin/ai/rag"
	"github.com/neurosphere-lab/lumi/server/service/appointment"
	"github.com/neurosphere-lab/lumi/store"
)

// scriptedLLM replays canned responses in call order.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) Chat(_ context.Context, _ []ai.Message) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embedding(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeSearcher struct {
	results []*store.FAQWithScore
}

func (f *fakeSearcher) SearchFAQsByVector(_ context.Context, _ *store.VectorSearchOptions) ([]*store.FAQWithScore, error) {
	return f.results, nil
}

// schedulerStore is an in-memory appointment inventory.
type schedulerStore struct {
	openSlots    map[string][]string
	bookErr      error
	cancelErr    error
	reservations []*store.Reservation
}

func (s *schedulerStore) ListOpenSlots(_ context.Context, find *store.FindOpenSlots) ([]string, error) {
	return s.openSlots[find.Day], nil
}

func (s *schedulerStore) BookSlot(_ context.Context, book *store.BookSlot) (*store.Reservation, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &store.Reservation{UserID: book.UserID, ChatID: book.ChatID, Day: book.Day, Time: book.Time}, nil
}

func (s *schedulerStore) CancelReservation(_ context.Context, _ *store.CancelReservation) error {
	return s.cancelErr
}

func (s *schedulerStore) ListReservations(_ context.Context, _ *store.FindReservation) ([]*store.Reservation, error) {
	return s.reservations, nil
}

func newTestAgent(llm ai.CompletionService, ss *schedulerStore) *Agent {
	now := time.Date(2025, 4, 21, 14, 0, 0, 0, time.UTC)
	scheduler := appointment.NewService(ss,
		appointment.WithClock(func() time.Time { return now }),
		appointment.WithRetry(3, time.Millisecond))
	retriever := rag.NewRetriever(fakeEmbedder{}, &fakeSearcher{results: []*store.FAQWithScore{
		{FAQ: &store.FAQ{Question: "What does NeuroSphere Lab do?", Answer: "NeuroSphere Lab builds AI products."}, Score: 0.9},
	}})
	answerer := rag.NewAnswerer(llm, retriever)
	return New(llm, answerer, scheduler, appointment.NewIntentExtractor(llm))
}

func TestRespondBookAppointment(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "BookAppointment"}`,
		`{"day": "2025-04-26", "time": "14:00"}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "book me Saturday at 2pm")
	require.NoError(t, err)
	require.Equal(t, "Your appointment has been booked for 2025-04-26 at 14:00!", reply)
}

func TestRespondBookSlotUnavailable(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "BookAppointment"}`,
		`{"day": "2025-04-26", "time": "14:00"}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{bookErr: store.ErrSlotUnavailable})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "book me Saturday at 2pm")
	require.NoError(t, err)
	require.Equal(t, "Sorry, 14:00 on 2025-04-26 is not available.", reply)
}

func TestRespondBookMissingIntent(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "BookAppointment"}`,
		`{"day": "sometime", "time": "later"}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "book me in sometime")
	require.NoError(t, err)
	require.Equal(t, "Please provide both day and time to book an appointment.", reply)
}

func TestRespondCancelNotOwner(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "CancelAppointment"}`,
		`{"day": "2025-04-26", "time": "14:00"}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{cancelErr: store.ErrNotOwner})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "cancel my Saturday slot")
	require.NoError(t, err)
	require.Equal(t, "You don't have a reservation at that time.", reply)
}

func TestRespondCheckAvailability(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "CheckAvailability"}`,
		`{"day": "2025-04-26", "time": null}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{openSlots: map[string][]string{
		"2025-04-26": {"09:00", "14:00"},
	}})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "anything free on the 26th?")
	require.NoError(t, err)
	require.Equal(t, "Available on Saturday, Apr 26:\n- 09:00\n- 14:00", reply)
}

func TestRespondViewReservations(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "ViewReservations"}`,
	}}
	agent := newTestAgent(llm, &schedulerStore{reservations: []*store.Reservation{
		{Day: "2025-04-26", Time: "14:00"},
	}})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "what are my reservations?")
	require.NoError(t, err)
	require.Equal(t, "Your reservations:\n- 2025-04-26 at 14:00", reply)
}

func TestRespondFAQ(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "FAQ"}`,
		"NeuroSphere Lab builds **AI products**.",
	}}
	agent := newTestAgent(llm, &schedulerStore{})

	reply, err := agent.Respond(context.Background(), "user-1", "chat-1", "what does the company do?")
	require.NoError(t, err)
	require.Equal(t, "NeuroSphere Lab builds AI products.", reply)
}

func TestClassifyKeywordFallback(t *testing.T) {
	tests := []struct {
		query string
		want  Tool
	}{
		{query: "please cancel my booking", want: ToolCancelAppointment},
		{query: "show my reservations", want: ToolViewReservations},
		{query: "book a slot tomorrow", want: ToolBookAppointment},
		{query: "any available times on Monday?", want: ToolCheckAvailability},
		{query: "where are you located?", want: ToolFAQ},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, classifyByKeywords(tt.query), tt.query)
	}
}

func TestParseToolResponse(t *testing.T) {
	tool, ok := parseToolResponse("```json\n{\"tool\": \"FAQ\"}\n```")
	require.True(t, ok)
	require.Equal(t, ToolFAQ, tool)

	_, ok = parseToolResponse(`{"tool": "DropTables"}`)
	require.False(t, ok)

	_, ok = parseToolResponse("I think the FAQ tool fits best.")
	require.False(t, ok)
}
