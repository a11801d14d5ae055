package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/neurosphere-lab/lumi/plugin/ai"
)

type fakeLLM struct {
	response string
	err      error
	messages []ai.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []ai.Message) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtractIntent(t *testing.T) {
	today := time.Date(2025, 4, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		response string
		wantDay  *string
		wantTime *string
	}{
		{
			name:     "plain json",
			response: `{"day": "2025-04-26", "time": "14:00"}`,
			wantDay:  strPtr("2025-04-26"),
			wantTime: strPtr("14:00"),
		},
		{
			name:     "fenced json",
			response: "```json\n{\"day\": \"Sunday\", \"time\": \"10 am\"}\n```",
			wantDay:  strPtr("Sunday"),
			wantTime: strPtr("10 am"),
		},
		{
			name:     "bare fence",
			response: "```\n{\"day\": \"tomorrow\", \"time\": \"09:00\"}\n```",
			wantDay:  strPtr("tomorrow"),
			wantTime: strPtr("09:00"),
		},
		{
			name:     "null fields",
			response: `{"day": null, "time": null}`,
		},
		{
			name:     "literal null strings",
			response: `{"day": "null", "time": ""}`,
		},
		{
			name:     "prose instead of json",
			response: "Sure! The user wants to book on Sunday at 10.",
		},
		{
			name:     "unexpected extra field",
			response: `{"day": "2025-04-26", "time": "14:00", "action": "drop all tables"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{response: tt.response}
			extractor := NewIntentExtractor(llm)
			intent := extractor.Extract(context.Background(), "book me in", today)
			if tt.wantDay == nil {
				require.Nil(t, intent.Day)
			} else {
				require.NotNil(t, intent.Day)
				require.Equal(t, *tt.wantDay, *intent.Day)
			}
			if tt.wantTime == nil {
				require.Nil(t, intent.Time)
			} else {
				require.NotNil(t, intent.Time)
				require.Equal(t, *tt.wantTime, *intent.Time)
			}
		})
	}
}

func TestExtractIntentModelFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("upstream timeout")}
	extractor := NewIntentExtractor(llm)
	intent := extractor.Extract(context.Background(), "book me in", time.Now())
	require.Nil(t, intent.Day)
	require.Nil(t, intent.Time)
}

func TestExtractIntentPromptCarriesToday(t *testing.T) {
	llm := &fakeLLM{response: `{"day": "today", "time": "10:00"}`}
	extractor := NewIntentExtractor(llm)
	today := time.Date(2025, 4, 25, 10, 0, 0, 0, time.UTC)
	extractor.Extract(context.Background(), "anything today?", today)

	require.Len(t, llm.messages, 2)
	require.Contains(t, llm.messages[0].Content, "Friday, 2025-04-25")
	require.Contains(t, llm.messages[1].Content, "anything today?")
}

func TestNormalizeIntent(t *testing.T) {
	intent := ExtractedIntent{Day: strPtr("2025-04-26"), Time: strPtr("10 am")}
	slot := intent.Normalize()
	require.NotNil(t, slot.Day)
	require.Equal(t, "2025-04-26", *slot.Day)
	require.Nil(t, slot.Time)
}
