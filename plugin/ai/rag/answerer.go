package rag

import (
	"context"
	"fmt"
	"strings"

	chaterrors "github.com/neurosphere-lab/lumi/internal/errors"
	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/store"
)

const answerSystemPrompt = `You are an expert customer support agent named Lumi for NeuroSphere Lab.

You have two options:
1. If the question is a greeting, farewell, or thanks:
   - Respond to a greeting with this ONLY: (Hey there, I am Lumi a customer service agent. I can answer any question about NeuroSphere Lab company and I can book you an appointment for a meeting with the company. I am ready to help you.)
   - Respond to a farewell with this ONLY: (Goodbye! Have a great day!)
   - Respond to thanks with this ONLY: (You are welcome! Tell me if you need any other help.)

2. Otherwise answer based only on the context provided. If the context does not cover the question, say you do not know rather than inventing an answer.

Context:
%s`

// Answerer generates grounded support answers over the FAQ corpus.
type Answerer struct {
	llm       ai.CompletionService
	retriever *Retriever
}

// NewAnswerer creates a new answer generator.
func NewAnswerer(llm ai.CompletionService, retriever *Retriever) *Answerer {
	return &Answerer{llm: llm, retriever: retriever}
}

// Answer retrieves the closest FAQ entries and asks the model to answer
// grounded on them. The reply is rendered to plain text before it reaches
// the user.
func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	results, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}

	response, err := a.llm.Chat(ctx, []ai.Message{
		ai.SystemPrompt(fmt.Sprintf(answerSystemPrompt, buildContext(results))),
		ai.UserMessage(fmt.Sprintf("Question: %s", question)),
	})
	if err != nil {
		if chatErr, ok := chaterrors.AsChatError(err); ok {
			return "", chatErr
		}
		return "", chaterrors.LLMUnavailable("failed to generate answer", err)
	}
	return ai.ToPlainText(response), nil
}

func buildContext(results []*store.FAQWithScore) string {
	if len(results) == 0 {
		return "(no relevant entries found)"
	}
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.FAQ.Answer)
	}
	return sb.String()
}
