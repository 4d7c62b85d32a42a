// Package report renders the final client-facing plain-text document from a
// metrics record and its narrative.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"recruitcli/internal/analysis"
	"recruitcli/pkg/contracts/domain"
)

// DefaultTemplate is used when the settings store holds no custom template.
// Placeholders are literal {field} tokens so operators can edit the stored
// template without learning a template language.
const DefaultTemplate = `Subject: Weekly Recruitment Update - {project_name}

Dear Valued Client,

Weekly recruitment progress update for {project_name}:

RECRUITMENT SUMMARY:
================================================================

Total Target: {total_quota} respondents
Current Completes: {overall_completes} respondents
Completion Rate: {completion_percentage}%

SEGMENT BREAKDOWN:
{segments_summary}
AI ANALYSIS:
{analysis}

Report generated: {analysis_date}

Best regards,
Survey Operations Team`

// Render substitutes the metrics fields and narrative into the template and
// reduces the result to 7-bit ASCII. An empty template falls back to
// DefaultTemplate.
func Render(m *domain.MetricsRecord, narrative, template string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	r := strings.NewReplacer(
		"{project_name}", m.ProjectName,
		"{total_quota}", strconv.Itoa(m.TotalQuota),
		"{overall_completes}", strconv.Itoa(m.OverallCompletes),
		"{completion_percentage}", fmt.Sprintf("%.0f", m.CompletionPercentage*100),
		"{segments_summary}", SegmentsSummary(m),
		"{analysis}", narrative,
		"{analysis_date}", m.AnalysisDate.Format("2006-01-02 15:04:05"),
	)

	return analysis.ToASCII(r.Replace(template))
}

// SegmentsSummary lists every segment with its per-category completed counts,
// using ASCII-safe bullets and stable ordering.
func SegmentsSummary(m *domain.MetricsRecord) string {
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
			fmt.Fprintf(&b, "  * %s: %d completes\n", category, m.Segments[segment][category])
		}
	}
	return b.String()
}
