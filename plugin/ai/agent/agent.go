// Package agent routes a chat turn to the support tool that can handle
// it: FAQ answering over the retrieval corpus, or one of the scheduling
// operations.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	chaterrors "github.com/neurosphere-lab/lumi/internal/errors"
	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/plugin/ai/rag"
	"github.com/neurosphere-lab/lumi/server/service/appointment"
	"github.com/neurosphere-lab/lumi/store"
)

// Tool identifies one of the agent's capabilities.
type Tool string

const (
	ToolFAQ               Tool = "FAQ"
	ToolCheckAvailability Tool = "CheckAvailability"
	ToolBookAppointment   Tool = "BookAppointment"
	ToolCancelAppointment Tool = "CancelAppointment"
	ToolViewReservations  Tool = "ViewReservations"
)

const classifySystemPrompt = `You are a tool router for a customer support agent. Pick exactly one tool for the user's message:
- "FAQ": questions about the company, its services, products, or contact info, and greetings, farewells, or thanks. NEVER use this for appointments, bookings, or time-related queries.
- "CheckAvailability": checking available appointment slots. The message mentions a date or time.
- "BookAppointment": booking an appointment. The message asks to book, schedule, or reserve.
- "CancelAppointment": canceling an existing appointment.
- "ViewReservations": viewing the user's existing reservations.
Respond with JSON in this exact format and nothing else:
{"tool": "..."}`

// Agent is the per-deployment tool router. It is safe for concurrent use.
type Agent struct {
	llm       ai.CompletionService
	answerer  *rag.Answerer
	scheduler *appointment.Service
	extractor *appointment.IntentExtractor
}

// New creates a new agent.
func New(llm ai.CompletionService, answerer *rag.Answerer, scheduler *appointment.Service, extractor *appointment.IntentExtractor) *Agent {
	return &Agent{
		llm:       llm,
		answerer:  answerer,
		scheduler: scheduler,
		extractor: extractor,
	}
}

// Respond handles one chat turn for the given user and chat. Scheduling
// outcomes are reported as user-facing text; only FAQ pipeline failures
// surface as errors.
func (a *Agent) Respond(ctx context.Context, userID, chatID, query string) (string, error) {
	tool := a.classify(ctx, query)
	slog.Info("agent routed query", "tool", string(tool), "user_id", userID, "chat_id", chatID)

	switch tool {
	case ToolCheckAvailability:
		return a.checkAvailability(ctx, query), nil
	case ToolBookAppointment:
		return a.bookAppointment(ctx, userID, chatID, query), nil
	case ToolCancelAppointment:
		return a.cancelAppointment(ctx, userID, query), nil
	case ToolViewReservations:
		return a.viewReservations(ctx, userID)
	default:
		return a.answerer.Answer(ctx, query)
	}
}

// classify asks the model for a tool name and falls back to keyword rules
// when the reply cannot be parsed. The reply is matched against the known
// tool set, never executed.
func (a *Agent) classify(ctx context.Context, query string) Tool {
	response, err := a.llm.Chat(ctx, []ai.Message{
		ai.SystemPrompt(classifySystemPrompt),
		ai.UserMessage(query),
	})
	if err != nil {
		slog.Warn("tool classification call failed, using keyword rules", "error", err)
		return classifyByKeywords(query)
	}
	if tool, ok := parseToolResponse(response); ok {
		return tool
	}
	slog.Warn("unparseable tool classification, using keyword rules")
	return classifyByKeywords(query)
}

func parseToolResponse(response string) (Tool, bool) {
	jsonStr := strings.TrimSpace(response)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	var raw struct {
		Tool string `json:"tool"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return "", false
	}
	switch Tool(strings.TrimSpace(raw.Tool)) {
	case ToolFAQ, ToolCheckAvailability, ToolBookAppointment, ToolCancelAppointment, ToolViewReservations:
		return Tool(strings.TrimSpace(raw.Tool)), true
	}
	return "", false
}

func classifyByKeywords(query string) Tool {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "cancel"):
		return ToolCancelAppointment
	case strings.Contains(q, "my reservation") || strings.Contains(q, "my appointment"):
		return ToolViewReservations
	case strings.Contains(q, "book") || strings.Contains(q, "reserve") || strings.Contains(q, "schedule"):
		return ToolBookAppointment
	case strings.Contains(q, "available") || strings.Contains(q, "availability") || strings.Contains(q, "open slot") || strings.Contains(q, "free slot"):
		return ToolCheckAvailability
	default:
		return ToolFAQ
	}
}

func (a *Agent) checkAvailability(ctx context.Context, query string) string {
	intent := a.extractor.Extract(ctx, query, a.scheduler.Now())
	dayExpr := ""
	if intent.Day != nil {
		dayExpr = *intent.Day
	}
	availability, err := a.scheduler.CheckAvailability(ctx, dayExpr)
	if err != nil {
		slog.Error("availability check failed", "error", err)
		return "Failed to check availability. Please try again."
	}
	return appointment.FormatAvailability(availability)
}

func (a *Agent) bookAppointment(ctx context.Context, userID, chatID, query string) string {
	slot := a.extractor.Extract(ctx, query, a.scheduler.Now()).Normalize()
	if slot.Day == nil || slot.Time == nil {
		return "Please provide both day and time to book an appointment."
	}

	outcome := a.scheduler.Book(ctx, &store.BookSlot{
		UserID: userID,
		ChatID: chatID,
		Day:    *slot.Day,
		Time:   *slot.Time,
	})
	switch outcome.Status {
	case appointment.BookingSuccess:
		return fmt.Sprintf("Your appointment has been booked for %s at %s!", *slot.Day, *slot.Time)
	case appointment.BookingSlotUnavailable:
		return fmt.Sprintf("Sorry, %s on %s is not available.", *slot.Time, *slot.Day)
	case appointment.BookingTransientFailure:
		slog.Error("booking exhausted retries", "error", outcome.Err)
		return "Failed to book appointment after retries. Please try again later."
	default:
		slog.Error("booking failed", "error", outcome.Err)
		return "Failed to book appointment due to database error. Please try again later."
	}
}

func (a *Agent) cancelAppointment(ctx context.Context, userID, query string) string {
	slot := a.extractor.Extract(ctx, query, a.scheduler.Now()).Normalize()
	if slot.Day == nil || slot.Time == nil {
		return "Please provide the day and time of the appointment you wish to cancel."
	}

	outcome := a.scheduler.Cancel(ctx, &store.CancelReservation{
		UserID: userID,
		Day:    *slot.Day,
		Time:   *slot.Time,
	})
	switch outcome.Status {
	case appointment.CancellationSuccess:
		return fmt.Sprintf("Your appointment on %s at %s has been cancelled.", *slot.Day, *slot.Time)
	case appointment.CancellationNotFound:
		return "No such appointment found."
	case appointment.CancellationNotOwner:
		return "You don't have a reservation at that time."
	default:
		slog.Error("cancellation failed", "error", outcome.Err)
		return "Failed to cancel appointment. Please try again later."
	}
}

func (a *Agent) viewReservations(ctx context.Context, userID string) (string, error) {
	reservations, err := a.scheduler.ListReservations(ctx, userID)
	if err != nil {
		return "", chaterrors.StoreUnavailable("failed to fetch reservations", err)
	}
	return appointment.FormatReservations(reservations), nil
}
