package dataprocessing

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"recruitcli/pkg/contracts/domain"
)

const (
	// totalsAnchor marks the header row; the values live on the row below it.
	totalsAnchor = "Total Quota"
	// segmentMarker marks the start of a named segment block.
	segmentMarker = "Split"
	// segmentSuffix is stripped from the marker cell to obtain the segment name.
	segmentSuffix = " Split"

	// Fixed offsets on the totals values row.
	totalQuotaCol       = 1
	overallCompletesCol = 2
	completionPctCol    = 4

	// Fixed offsets on a segment data row.
	categoryCol      = 2
	countCol         = 3
	countFallbackCol = 4

	// Category labels of 2 characters or fewer are stray punctuation, not data.
	minCategoryLen = 3
)

// Extract scans a client-summary grid and recovers the recruitment metrics.
// The sheet has no fixed schema: section headers, subtotal rows and data rows
// interleave freely, so the scan is anchored on two literal markers
// ("Total Quota" and "<Name> Split") and reads fixed offsets relative to them.
//
// Missing anchors or unparseable cells never fail the extraction; the record
// degrades to zero counts and empty segments. Only an empty grid returns nil.
func Extract(grid *domain.RawGrid, projectName string) *domain.MetricsRecord {
	if grid.Empty() {
		slog.Warn("Extraction aborted, empty grid")
		return nil
	}

	record := &domain.MetricsRecord{
		ProjectName:  projectName,
		Segments:     make(map[string]map[string]int),
		AnalysisDate: time.Now(),
	}

	extractTotals(grid, record)
	extractSegments(grid, record)

	slog.Info("Extraction complete",
		slog.Int("total_quota", record.TotalQuota),
		slog.Int("overall_completes", record.OverallCompletes),
		slog.Float64("completion_percentage", record.CompletionPercentage),
		slog.Int("segments", len(record.Segments)))

	return record
}

// extractTotals locates the first row containing the totals anchor and reads
// the three headline numbers from fixed offsets on the row below it. Only the
// first anchor is honored; later totals blocks are ignored.
func extractTotals(grid *domain.RawGrid, record *domain.MetricsRecord) {
	for i, row := range grid.Rows {
		if !rowContains(row, totalsAnchor) {
			continue
		}
		if i+1 >= len(grid.Rows) {
			slog.Debug("Totals anchor on last row, no values row", slog.Int("row", i))
			return
		}

		values := grid.Rows[i+1]
		if v, ok := values.Cell(totalQuotaCol).Int(); ok {
			record.TotalQuota = v
		}
		if v, ok := values.Cell(overallCompletesCol).Int(); ok {
			record.OverallCompletes = v
		}
		if v, ok := values.Cell(completionPctCol).Float(); ok {
			record.CompletionPercentage = v
		}

		slog.Debug("Totals row parsed",
			slog.Int("anchor_row", i),
			slog.Int("total_quota", record.TotalQuota),
			slog.Int("overall_completes", record.OverallCompletes))
		return
	}

	slog.Debug("No totals anchor found in grid")
}

// extractSegments walks the grid a second time maintaining a current-segment
// cursor. A marker cell switches the cursor and registers an empty category
// map; the same row is still considered as a data row afterwards, matching
// the source format where a marker row occasionally carries the first count.
func extractSegments(grid *domain.RawGrid, record *domain.MetricsRecord) {
	var current string

	for _, row := range grid.Rows {
		if len(row) == 0 {
			continue
		}

		for _, cell := range row {
			if cell.Kind == domain.CellText && strings.Contains(cell.Text, segmentMarker) {
				current = strings.TrimSpace(strings.ReplaceAll(cell.Text, segmentSuffix, ""))
				record.Segments[current] = make(map[string]int)
				break
			}
		}

		if current == "" || len(row) <= countCol {
			continue
		}

		nameCell := row.Cell(categoryCol)
		if !nameCell.IsPresent() {
			continue
		}
		category := strings.TrimSpace(nameCell.String())
		if utf8.RuneCountInString(category) < minCategoryLen {
			continue
		}

		count, ok := row.Cell(countCol).Int()
		if !ok {
			count, _ = row.Cell(countFallbackCol).Int()
		}
		if count > 0 {
			record.Segments[current][category] = count
		}
	}
}

// rowContains reports whether any text cell in the row contains the marker.
func rowContains(row domain.Row, marker string) bool {
	for _, cell := range row {
		if cell.Kind == domain.CellText && strings.Contains(cell.Text, marker) {
			return true
		}
	}
	return false
}
