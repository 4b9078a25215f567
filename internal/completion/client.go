// Package completion invokes the language model with fixed decoding
// parameters and degrades to a canned fallback when the provider fails.
package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	maxOutputTokens = 400
	baseTemperature = 0.8
	// Raised when the user re-asks something, so the reply varies instead of
	// repeating itself too.
	repetitionTemperature = 0.95
	topP                  = 0.9
)

// Fallback is returned verbatim whenever the provider call fails. The user
// must always receive something in-character, never a raw error.
const Fallback = "Sorry, my head is somewhere else right now... can you say that again?"

// Client generates persona replies through a model.LLM.
type Client struct {
	llm model.LLM
}

// NewClient returns a completion Client.
func NewClient(llm model.LLM) *Client {
	return &Client{llm: llm}
}

// Generate produces the persona reply for userMessage under systemPrompt.
// warning is true when the provider failed and the fallback was substituted.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string, repetitive bool) (text string, warning bool) {
	temperature := float32(baseTemperature)
	if repetitive {
		temperature = repetitionTemperature
	}
	topPValue := float32(topP)

	req := &model.LLMRequest{
		Contents: buildContents(systemPrompt, userMessage),
		Config: &genai.GenerateContentConfig{
			Temperature:     &temperature,
			TopP:            &topPValue,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	var resp *model.LLMResponse
	var err error
	for r, e := range c.llm.GenerateContent(ctx, req, false) {
		resp, err = r, e
		break
	}
	if err != nil {
		slog.Error("completion failed, returning fallback", "error", err.Error())
		return Fallback, true
	}

	reply := extractText(resp)
	if reply == "" {
		slog.Warn("completion returned empty response, returning fallback")
		return Fallback, true
	}
	return reply, false
}

// buildContents pins a short two-turn example before the live turn to anchor
// the casual register.
func buildContents(systemPrompt, userMessage string) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromText(systemPrompt, "system"),
		genai.NewContentFromText("hey, how's it going?", "user"),
		genai.NewContentFromText("hey! pretty good, just got back. what's up", "model"),
		genai.NewContentFromText(userMessage, "user"),
	}
}

func extractText(resp *model.LLMResponse) string {
	if resp == nil || resp.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Describe reports the decoding parameters, used for request logging.
func Describe(repetitive bool) string {
	t := baseTemperature
	if repetitive {
		t = repetitionTemperature
	}
	return fmt.Sprintf("temp=%.2f top_p=%.2f max_tokens=%d", t, topP, maxOutputTokens)
}
