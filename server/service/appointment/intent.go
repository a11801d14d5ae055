package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neurosphere-lab/lumi/plugin/ai"
)

// ExtractedIntent is the raw {day, time} record produced by the language
// model, before normalization. A nil field means the model could not
// confidently extract it.
type ExtractedIntent struct {
	Day  *string
	Time *string
}

// NormalizedSlot is the canonical form consumed by the booking and
// cancellation paths. Nil fields signal insufficient information, which
// downstream consumers must treat as a distinct outcome, not a default.
type NormalizedSlot struct {
	Day  *string
	Time *string
}

// IntentExtractor wraps a single language model call that extracts
// structured date/time intent from a free-form query.
type IntentExtractor struct {
	llm ai.CompletionService
}

// NewIntentExtractor creates a new intent extractor.
func NewIntentExtractor(llm ai.CompletionService) *IntentExtractor {
	return &IntentExtractor{llm: llm}
}

const extractSystemPrompt = `You are a helpful assistant that extracts date and time info from user input. Today's date is %s (e.g., Friday, 2025-04-25).
Extract:
- "day": either a full date (YYYY-MM-DD), or a relative word like "today", "tomorrow", or weekday like "Sunday"
- "time": a time in HH:MM (24-hour), or natural format like "10 am", "2 pm", etc.
Respond with JSON in this exact format and nothing else:
{"day": "...", "time": "..."}`

// Extract performs exactly one language model call. Any model failure or
// unparseable reply degrades to a fully-nil intent; the caller asks the
// user to clarify instead of surfacing an error.
func (e *IntentExtractor) Extract(ctx context.Context, query string, today time.Time) ExtractedIntent {
	todayStr := today.Format("Monday, 2006-01-02")
	response, err := e.llm.Chat(ctx, []ai.Message{
		ai.SystemPrompt(fmt.Sprintf(extractSystemPrompt, todayStr)),
		ai.UserMessage(fmt.Sprintf("Query: %s", query)),
	})
	if err != nil {
		slog.Warn("intent extraction call failed", "error", err)
		return ExtractedIntent{}
	}

	intent, err := parseIntentResponse(response)
	if err != nil {
		slog.Warn("failed to parse intent response", "error", err, "response", truncateForLog(response, 200))
		return ExtractedIntent{}
	}
	return intent
}

// parseIntentResponse parses the model reply as a strict two-field JSON
// record. The reply is data, never instructions: anything that does not
// decode into the expected shape is rejected.
func parseIntentResponse(response string) (ExtractedIntent, error) {
	jsonStr := strings.TrimSpace(response)

	// Clean code blocks if present
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	var raw struct {
		Day  *string `json:"day"`
		Time *string `json:"time"`
	}
	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return ExtractedIntent{}, fmt.Errorf("unexpected reply shape: %w", err)
	}

	intent := ExtractedIntent{}
	if raw.Day != nil && strings.TrimSpace(*raw.Day) != "" && !strings.EqualFold(*raw.Day, "null") {
		day := strings.TrimSpace(*raw.Day)
		intent.Day = &day
	}
	if raw.Time != nil && strings.TrimSpace(*raw.Time) != "" && !strings.EqualFold(*raw.Time, "null") {
		t := strings.TrimSpace(*raw.Time)
		intent.Time = &t
	}
	return intent, nil
}

// Normalize canonicalizes an extracted intent. Fields that fail strict
// validation come back nil.
func (i ExtractedIntent) Normalize() NormalizedSlot {
	slot := NormalizedSlot{}
	if i.Day != nil {
		slot.Day = NormalizeDate(*i.Day)
	}
	if i.Time != nil {
		slot.Time = NormalizeTime(*i.Time)
	}
	return slot
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
