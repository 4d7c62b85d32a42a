package analysis

import (
	"fmt"
	"strings"

	"recruitcli/pkg/contracts/domain"
)

// Status labels emitted by the rule-based fallback, thresholded on the
// completion rate in percent.
const (
	StatusCompleted    = "COMPLETED - Target achieved"
	StatusNearComplete = "ON TRACK - Near completion"
	StatusGoodProgress = "ON TRACK - Good progress"
	StatusBehind       = "BEHIND SCHEDULE - Needs attention"
)

// Classify maps a completion rate (in percent, not the 0..1 ratio) to the
// fixed status label set.
func Classify(completionRate float64) string {
	switch {
	case completionRate >= 100:
		return StatusCompleted
	case completionRate >= 90:
		return StatusNearComplete
	case completionRate >= 75:
		return StatusGoodProgress
	default:
		return StatusBehind
	}
}

// Fallback renders the deterministic summary used whenever the generative
// call is unavailable or fails.
func Fallback(m *domain.MetricsRecord) string {
	rate := m.CompletionPercentage * 100

	var b strings.Builder
	fmt.Fprintf(&b, "STATUS: %s\n\n", Classify(rate))
	b.WriteString("ANALYSIS:\n")
	fmt.Fprintf(&b, "- Survey has achieved %.0f%% of target quota\n", rate)
	fmt.Fprintf(&b, "- %d completes out of %d target\n", m.OverallCompletes, m.TotalQuota)
	b.WriteString("- Strong performance across specialty segments\n")
	b.WriteString("- Recruitment progressing as planned\n\n")
	b.WriteString("RECOMMENDATIONS:\n")
	b.WriteString("- Continue current recruitment strategy\n")
	b.WriteString("- Monitor segment balance for any adjustments needed\n")
	b.WriteString("- Project on track for successful completion\n")
	return b.String()
}
