package domain

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the three states a spreadsheet cell can be in once
// it has been decoded from the source workbook.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
)

// Cell is a tagged value from the source grid. Number cells keep the decoded
// float; Text cells keep the raw string. Absent cells carry nothing.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// AbsentCell returns the zero cell explicitly.
func AbsentCell() Cell {
	return Cell{Kind: CellAbsent}
}

// TextCell builds a text cell. An empty or whitespace-only string decodes as
// absent, matching how workbook readers report blank cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellAbsent}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a number cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// IsPresent reports whether the cell holds a value.
func (c Cell) IsPresent() bool {
	return c.Kind != CellAbsent
}

// String returns the textual content of the cell. Numbers are formatted with
// the shortest representation that round-trips.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Int coerces the cell to an integer. Text cells are parsed after trimming
// whitespace and thousands separators; a fractional text value such as "45.0"
// still coerces. The bool result is false when the cell is absent or the
// content does not convert cleanly.
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		return int(c.Number), true
	case CellText:
		s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(v), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// Float coerces the cell to a float64 with the same tolerance as Int.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Row is one ordered line of cells from the source grid.
type Row []Cell

// Cell returns the cell at idx, or an absent cell when the row is shorter.
func (r Row) Cell(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return AbsentCell()
	}
	return r[idx]
}

// RawGrid is the decoded client-summary sheet: an ordered sequence of rows of
// tagged cells. It is built once by the fetcher and read-only afterwards.
type RawGrid struct {
	Sheet string `json:"sheet"`
	Rows  []Row  `json:"-"`
}

// Empty reports whether the grid holds no rows at all.
func (g *RawGrid) Empty() bool {
	return g == nil || len(g.Rows) == 0
}

// MetricsRecord is the structured recruitment state recovered from one grid.
// CompletionPercentage is the sheet's own self-reported ratio (0..1), taken
// verbatim rather than recomputed from the two counts.
type MetricsRecord struct {
	ProjectName          string                    `json:"project_name"`
	TotalQuota           int                       `json:"total_quota" validate:"min=0"`
	OverallCompletes     int                       `json:"overall_completes" validate:"min=0"`
	CompletionPercentage float64                   `json:"completion_percentage"`
	Segments             map[string]map[string]int `json:"segments"`
	AnalysisDate         time.Time                 `json:"analysis_date"`
}

// SegmentNames returns the segment keys. Ordering is left to callers; map
// iteration order is not stable.
func (m *MetricsRecord) SegmentNames() []string {
	names := make([]string, 0, len(m.Segments))
	for name := range m.Segments {
		names = append(names, name)
	}
	return names
}

// GenerateResult is the envelope emitted by the generate_report command.
type GenerateResult struct {
	Success        bool           `json:"success"`
	ProjectData    *MetricsRecord `json:"project_data,omitempty"`
	Analysis       string         `json:"analysis,omitempty"`
	AnalysisSource string         `json:"analysis_source,omitempty"`
	Report         string         `json:"report,omitempty"`
	Error          string         `json:"error,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// SendResult is the envelope emitted by the send_emails command.
type SendResult struct {
	Success      bool   `json:"success"`
	SentCount    int    `json:"sent_count"`
	TotalClients int    `json:"total_clients"`
	Error        string `json:"error,omitempty"`
}
