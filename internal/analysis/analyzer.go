// Package analysis turns a metrics record into client-facing narrative text.
// The primary path is a generative-text call; any failure there drops down to
// a deterministic rule-based summary. The result is tagged with the path that
// produced it so callers and the operational log can tell the two apart.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"recruitcli/internal/config"
	"recruitcli/pkg/contracts/domain"
)

// Source identifies which path produced the narrative text.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is the narrative plus its provenance.
type Result struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Request carries everything one analysis run needs. The API key, prompt and
// model id come from the settings store and may change between runs.
type Request struct {
	Metrics      *domain.MetricsRecord
	SystemPrompt string
	ModelID      string
	APIKey       string
}

// TextGenerator is the external generative-text collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, modelID, prompt string, maxOutputTokens int) (string, error)
}

// clientFactory builds a TextGenerator for one run's credentials.
type clientFactory func(ctx context.Context, apiKey string) (TextGenerator, error)

// Analyzer produces narrative summaries of recruitment metrics.
type Analyzer struct {
	cfg       config.AnalysisConfig
	newClient clientFactory
	logger    *slog.Logger
}

// New creates an Analyzer backed by the Gemini API.
func New(cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return newAnalyzer(cfg, newGenAIClient, logger)
}

func newAnalyzer(cfg config.AnalysisConfig, factory clientFactory, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, newClient: factory, logger: logger}
}

// Analyze returns a narrative for the metrics. The generative call is bounded
// by the configured timeout and output-token limit; auth, network, quota and
// malformed-response failures all degrade to the rule-based fallback instead
// of propagating. The text is always reduced to 7-bit ASCII.
func (a *Analyzer) Analyze(ctx context.Context, req Request) Result {
	if req.Metrics == nil {
		return Result{Text: "", Source: SourceFallback}
	}

	text, err := a.generate(ctx, req)
	if err != nil {
		a.logger.WarnContext(ctx, "Generative analysis failed, using fallback",
			slog.String("model", req.ModelID),
			slog.String("error", err.Error()))
		return Result{Text: ToASCII(Fallback(req.Metrics)), Source: SourceFallback}
	}

	a.logger.InfoContext(ctx, "Generative analysis complete",
		slog.String("model", req.ModelID),
		slog.Int("chars", len(text)))
	return Result{Text: ToASCII(text), Source: SourceModel}
}

func (a *Analyzer) generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", fmt.Errorf("no API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	client, err := a.newClient(ctx, req.APIKey)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}

	text, err := client.Generate(ctx, req.ModelID, BuildPrompt(req.Metrics, req.SystemPrompt), a.cfg.MaxOutputTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}

// BuildPrompt renders the metrics into the instruction prefix the model sees.
func BuildPrompt(m *domain.MetricsRecord, systemPrompt string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "PROJECT: %s\n", m.ProjectName)
	fmt.Fprintf(&b, "Total Target: %d respondents\n", m.TotalQuota)
	fmt.Fprintf(&b, "Current Completes: %d respondents\n", m.OverallCompletes)
	fmt.Fprintf(&b, "Completion Rate: %.0f%%\n", m.CompletionPercentage*100)
	b.WriteString("\nSEGMENTS:")
	b.WriteString(segmentsText(m, "  - "))
	b.WriteString("\n\nProvide:\n")
	b.WriteString("1. Status assessment (On Track/Behind/Ahead)\n")
	b.WriteString("2. Key insights\n")
	b.WriteString("3. Professional summary for client\n")
	return b.String()
}

// segmentsText lists every segment and its categories, one per line, with the
// given bullet prefix. Output order is stable.
func segmentsText(m *domain.MetricsRecord, bullet string) string {
	names := m.SegmentNames()
	sort.Strings(names)

	var b strings.Builder
	for _, segment := range names {
		fmt.Fprintf(&b, "\n%s:\n", segment)

		categories := make([]string, 0, len(m.Segments[segment]))
		for category := range m.Segments[segment] {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			fmt.Fprintf(&b, "%s%s: %d\n", bullet, category, m.Segments[segment][category])
		}
	}
	return b.String()
}
