// Package narrator turns an insight report into a short prose summary,
// optionally with a Gemini model.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/insights"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// ErrNoResponse is returned when the model produced no text.
var ErrNoResponse = errors.New("no response from Gemini API")

// Narrator writes a prose summary of a report.
type Narrator interface {
	Narrate(ctx context.Context, report insights.Report, prov models.Provenance) (string, error)
}

// Plain joins the observations without a model.
type Plain struct{}

// Narrate implements Narrator.
func (Plain) Narrate(_ context.Context, report insights.Report, prov models.Provenance) (string, error) {
	var b strings.Builder
	if prov.Synthetic {
		b.WriteString("These figures come from sample data. ")
	}
	for _, s := range report.Sections {
		if len(s.Observations) > 0 {
			b.WriteString(s.Observations[0])
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// generator is the part of the Gemini model the narrator calls.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini asks a generative model for the summary.
type Gemini struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
	logger  logging.Logger
}

// NewGemini creates a client for apiKey. Close releases it.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.3)
	return &Gemini{client: client, model: m, timeout: timeout, logger: logger}, nil
}

// Close releases the client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Narrate implements Narrator.
func (g *Gemini) Narrate(ctx context.Context, report insights.Report, prov models.Provenance) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(Prompt(report, prov)))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrNoResponse
	}
	g.logger.Debug("Narrative generated", logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}

// Prompt renders the report as instructions for the model.
func Prompt(report insights.Report, prov models.Provenance) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Summarize the observations below ")
	b.WriteString("in one friendly paragraph of at most five sentences, then give two concrete tips. ")
	b.WriteString("Do not invent figures that are not listed.\n")
	if prov.Synthetic {
		b.WriteString("The data is synthetic sample data; say so.\n")
	}
	for _, s := range report.Sections {
		if len(s.Observations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", s.Name)
		for _, o := range s.Observations {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}
	if len(report.Budget) > 0 {
		b.WriteString("\n[budget]\n")
		for _, line := range report.Budget {
			fmt.Fprintf(&b, "- %s: %.2f per month\n", line.Category, line.Suggested)
		}
	}
	return b.String()
}
