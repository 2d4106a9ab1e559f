// Package llm generates an optional executive summary over an already
// computed aggregate report. The model never classifies anything; it
// only narrates numbers the rule engine produced.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"salesintel/internal/aggregate"
	"salesintel/internal/classify"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("llm: no API key configured")

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are a sales operations analyst. You receive pre-computed
statistics from analyzed sales calls. Write a concise executive summary in
markdown: 2-3 paragraphs covering the dominant pain themes, the done-for-you
demand picture, and lead quality. Do not invent numbers; only use the figures
provided.`

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

type Summarizer struct {
	apiKey string
	model  string
}

func NewSummarizer(apiKey, model string) *Summarizer {
	if model == "" {
		model = defaultModel
	}
	return &Summarizer{apiKey: apiKey, model: model}
}

func (s *Summarizer) Configured() bool {
	return s != nil && s.apiKey != ""
}

// Summarize narrates the report through the Anthropic API. Callers are
// expected to treat ErrNotConfigured as "skip the summary section".
func (s *Summarizer) Summarize(ctx context.Context, report *aggregate.Report) (string, Usage, error) {
	if !s.Configured() {
		return "", Usage{}, ErrNotConfigured
	}

	client := anthropic.NewClient(option.WithAPIKey(s.apiKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(report))),
		},
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("anthropic API error: %w", err)
	}

	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// BuildPrompt flattens the aggregate report into the stat sheet the model
// sees. Kept exported so the prompt shape is testable without an API key.
func BuildPrompt(report *aggregate.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Calls analyzed: %d\n", report.CallsAnalyzed)
	fmt.Fprintf(&b, "Total pain points: %d\n\n", report.TotalPain)

	b.WriteString("Pain categories (by mention count):\n")
	for _, g := range report.PainGroups {
		fmt.Fprintf(&b, "- %s (%s urgency): %d mentions, avg intensity %.1f\n",
			g.Category, g.Urgency, g.MentionCount, g.AvgIntensity)
	}

	fmt.Fprintf(&b, "\nDone-for-you demand: mentioned on %d of %d calls\n",
		report.DFY.Mentioned, report.DFY.TotalCalls)
	for _, class := range []classify.DFYClassification{classify.DFYJustified, classify.DFYAvoidable, classify.DFYPremature} {
		if n := report.DFY.ByClassification[class]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", class, n)
		}
	}
	fmt.Fprintf(&b, "Avoidable rate: %d%%\n", report.DFY.AvoidableRate)

	fmt.Fprintf(&b, "\nLead quality: %d business emails, %d generic emails, %d prospects with a known website\n",
		report.LeadQuality.BusinessEmails, report.LeadQuality.GenericEmails, report.LeadQuality.WithWebsite)

	return b.String()
}
