package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recruitcli/pkg/contracts/domain"
)

func testMetrics() *domain.MetricsRecord {
	return &domain.MetricsRecord{
		ProjectName:          "GLD HBV PET Survey",
		TotalQuota:           150,
		OverallCompletes:     120,
		CompletionPercentage: 0.80,
		Segments: map[string]map[string]int{
			"Physicians": {"MD": 45, "DO": 12},
			"Region":     {"Northeast": 8},
		},
		AnalysisDate: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	out := Render(testMetrics(), "STATUS: ON TRACK", "")

	assert.Contains(t, out, "Weekly Recruitment Update - GLD HBV PET Survey")
	assert.Contains(t, out, "Total Target: 150 respondents")
	assert.Contains(t, out, "Current Completes: 120 respondents")
	assert.Contains(t, out, "Completion Rate: 80%")
	assert.Contains(t, out, "  * MD: 45 completes")
	assert.Contains(t, out, "  * DO: 12 completes")
	assert.Contains(t, out, "  * Northeast: 8 completes")
	assert.Contains(t, out, "STATUS: ON TRACK")
	assert.Contains(t, out, "Report generated: 2026-08-25 09:00:00")
	assert.NotContains(t, out, "{")
}

func TestRenderCustomTemplate(t *testing.T) {
	out := Render(testMetrics(), "fine", "{project_name}: {overall_completes}/{total_quota} ({completion_percentage}%)")
	assert.Equal(t, "GLD HBV PET Survey: 120/150 (80%)", out)
}

func TestRenderASCIIFilter(t *testing.T) {
	out := Render(testMetrics(), "progress – good", "{analysis}")
	assert.Equal(t, "progress  good", out)
}

func TestRenderEmptySegments(t *testing.T) {
	m := testMetrics()
	m.Segments = nil

	out := Render(m, "n", "")
	assert.Contains(t, out, "SEGMENT BREAKDOWN:\n\nAI ANALYSIS:")
}

func TestSegmentsSummaryOrdering(t *testing.T) {
	out := SegmentsSummary(testMetrics())
	assert.Less(t, strings.Index(out, "Physicians"), strings.Index(out, "Region"))
	assert.Less(t, strings.Index(out, "DO"), strings.Index(out, "MD"))
}
