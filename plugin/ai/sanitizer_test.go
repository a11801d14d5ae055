package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "bold stripped",
			markdown: "We offer **AI consulting** services.",
			want:     "We offer AI consulting services.",
		},
		{
			name:     "emphasis and heading stripped",
			markdown: "# Services\n\nWe build *custom* models.",
			want:     "Services\nWe build custom models.",
		},
		{
			name:     "list markers stripped",
			markdown: "- first\n- second",
			want:     "first\nsecond",
		},
		{
			name:     "inline code kept",
			markdown: "Run `lumi --mode demo` to start.",
			want:     "Run lumi --mode demo to start.",
		},
		{
			name:     "link text and autolink",
			markdown: "Visit <https://example.com> for details.",
			want:     "Visit https://example.com for details.",
		},
		{
			name:     "plain text unchanged",
			markdown: "Goodbye! Have a great day!",
			want:     "Goodbye! Have a great day!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ToPlainText(tt.markdown))
		})
	}
}
