package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitcli/internal/config"
	"recruitcli/pkg/contracts/domain"
)

type fakeGenerator struct {
	text string
	err  error

	gotModel  string
	gotPrompt string
	gotTokens int
}

func (f *fakeGenerator) Generate(ctx context.Context, modelID, prompt string, maxOutputTokens int) (string, error) {
	f.gotModel = modelID
	f.gotPrompt = prompt
	f.gotTokens = maxOutputTokens
	return f.text, f.err
}

func testMetrics() *domain.MetricsRecord {
	return &domain.MetricsRecord{
		ProjectName:          "GLD HBV PET Survey",
		TotalQuota:           150,
		OverallCompletes:     120,
		CompletionPercentage: 0.80,
		Segments: map[string]map[string]int{
			"Physicians": {"MD": 45, "DO": 12},
		},
		AnalysisDate: time.Now(),
	}
}

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{MaxOutputTokens: 500, Timeout: 5 * time.Second}
}

func analyzerWith(gen TextGenerator, genErr error) *Analyzer {
	return newAnalyzer(testConfig(), func(ctx context.Context, apiKey string) (TextGenerator, error) {
		return gen, genErr
	}, nil)
}

func TestAnalyzeModelPath(t *testing.T) {
	gen := &fakeGenerator{text: "All on track."}
	a := analyzerWith(gen, nil)

	res := a.Analyze(context.Background(), Request{
		Metrics:      testMetrics(),
		SystemPrompt: "Analyze this pharmaceutical survey recruitment status.",
		ModelID:      "gemini-2.5-flash",
		APIKey:       "test-key",
	})

	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, "All on track.", res.Text)
	assert.Equal(t, "gemini-2.5-flash", gen.gotModel)
	assert.Equal(t, 500, gen.gotTokens)
	assert.Contains(t, gen.gotPrompt, "PROJECT: GLD HBV PET Survey")
	assert.Contains(t, gen.gotPrompt, "Completion Rate: 80%")
	assert.Contains(t, gen.gotPrompt, "MD: 45")
}

func TestAnalyzeFallbackOnError(t *testing.T) {
	a := analyzerWith(&fakeGenerator{err: fmt.Errorf("quota exhausted")}, nil)

	res := a.Analyze(context.Background(), Request{
		Metrics: testMetrics(),
		ModelID: "gemini-2.5-flash",
		APIKey:  "test-key",
	})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Contains(t, res.Text, StatusGoodProgress)
	assert.Contains(t, res.Text, "120 completes out of 150 target")
}

func TestAnalyzeFallbackOnMissingKey(t *testing.T) {
	a := analyzerWith(&fakeGenerator{text: "should never be called"}, nil)

	res := a.Analyze(context.Background(), Request{Metrics: testMetrics()})

	assert.Equal(t, SourceFallback, res.Source)
	assert.NotContains(t, res.Text, "should never be called")
}

func TestAnalyzeFallbackOnEmptyResponse(t *testing.T) {
	a := analyzerWith(&fakeGenerator{text: "   "}, nil)

	res := a.Analyze(context.Background(), Request{Metrics: testMetrics(), APIKey: "k"})
	assert.Equal(t, SourceFallback, res.Source)
}

func TestAnalyzeFallbackOnClientError(t *testing.T) {
	a := analyzerWith(nil, fmt.Errorf("bad credentials"))

	res := a.Analyze(context.Background(), Request{Metrics: testMetrics(), APIKey: "k"})
	assert.Equal(t, SourceFallback, res.Source)
}

func TestAnalyzeStripsNonASCII(t *testing.T) {
	a := analyzerWith(&fakeGenerator{text: "Progress — on track • 80%"}, nil)

	res := a.Analyze(context.Background(), Request{Metrics: testMetrics(), APIKey: "k"})
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, "Progress  on track  80%", res.Text)
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{120, StatusCompleted},
		{100, StatusCompleted},
		{95, StatusNearComplete},
		{90, StatusNearComplete},
		{80, StatusGoodProgress},
		{75, StatusGoodProgress},
		{74.9, StatusBehind},
		{0, StatusBehind},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.rate), "rate %.1f", tt.rate)
	}
}

func TestFallbackUsesGridPercentage(t *testing.T) {
	// The status comes from the sheet's own percentage, even when it is
	// inconsistent with the two counts.
	m := testMetrics()
	m.CompletionPercentage = 1.0
	m.OverallCompletes = 10

	text := Fallback(m)
	assert.Contains(t, text, StatusCompleted)
	assert.Contains(t, text, "10 completes out of 150 target")
}

func TestToASCII(t *testing.T) {
	assert.Equal(t, "abc", ToASCII("abc"))
	assert.Equal(t, "caf: 5", ToASCII("café: 5€"))
	assert.Equal(t, "", ToASCII("日本語"))
}

func TestBuildPromptStableSegmentOrder(t *testing.T) {
	m := testMetrics()
	m.Segments["Region"] = map[string]int{"North": 3}

	p1 := BuildPrompt(m, "prompt")
	p2 := BuildPrompt(m, "prompt")
	require.Equal(t, p1, p2)
	assert.Less(t, strings.Index(p1, "Physicians"), strings.Index(p1, "Region"))
}
