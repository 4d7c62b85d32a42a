// Package fetcher obtains the recruitment workbook and decodes its client
// summary sheet into a typed grid. A local workbook in the configured
// directory always wins over the fallback URL, and every workbook is pushed
// through multiple decode engines before being declared unreadable.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"recruitcli/internal/config"
	"recruitcli/pkg/contracts/domain"
)

// sheetVariants are the client summary tab names seen in the wild, tried in
// order against each decoded workbook.
var sheetVariants = []string{"Client Summary", "ClientSummary", "client summary", "Summary"}

// workbookExtensions are the spreadsheet file extensions the local scan picks up.
var workbookExtensions = []string{".xlsx", ".xls"}

// Fetcher loads the raw recruitment grid from disk or the fallback URL.
type Fetcher struct {
	cfg    config.SourceConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a Fetcher with a bounded-timeout HTTP client.
func New(cfg config.SourceConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
	}
}

// Fetch returns the decoded client summary grid. A local workbook is tried
// first; when none exists the fallback URL is fetched. A local workbook that
// no engine can decode is a hard failure, it does not fall through to the
// network.
func (f *Fetcher) Fetch(ctx context.Context) (*domain.RawGrid, error) {
	if path, ok := f.findLocalWorkbook(); ok {
		f.logger.InfoContext(ctx, "Loading local workbook", slog.String("path", path))
		return decodeWorkbookFile(path, f.logger)
	}

	f.logger.InfoContext(ctx, "No local workbook found, fetching fallback URL",
		slog.String("url", f.cfg.FallbackURL))

	data, err := f.fetchRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote fetch failed: %w", err)
	}
	return decodeWorkbookBytes(data, f.logger)
}

// findLocalWorkbook scans the source directory for spreadsheet files,
// preferring one whose name contains "recruitment" over the first match.
func (f *Fetcher) findLocalWorkbook() (string, bool) {
	entries, err := os.ReadDir(f.cfg.Dir)
	if err != nil {
		f.logger.Warn("Source directory scan failed",
			slog.String("dir", f.cfg.Dir),
			slog.String("error", err.Error()))
		return "", false
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, ext := range workbookExtensions {
			if strings.HasSuffix(name, ext) {
				candidates = append(candidates, entry.Name())
				break
			}
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	f.logger.Debug("Workbook candidates found", slog.Any("files", candidates))

	for _, name := range candidates {
		if strings.Contains(strings.ToLower(name), "recruitment") {
			return filepath.Join(f.cfg.Dir, name), true
		}
	}
	return filepath.Join(f.cfg.Dir, candidates[0]), true
}

// fetchRemote downloads the workbook bytes from the fallback URL.
func (f *Fetcher) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.FallbackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, f.cfg.FallbackURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// decodeWorkbookFile tries each decode engine against the file on disk until
// one produces a grid.
func decodeWorkbookFile(path string, logger *slog.Logger) (*domain.RawGrid, error) {
	var lastErr error
	for _, engine := range engines {
		grid, err := engine.fromFile(path)
		if err != nil {
			logger.Debug("Decode engine failed",
				slog.String("engine", engine.name),
				slog.String("path", path),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		logger.Info("Workbook decoded",
			slog.String("engine", engine.name),
			slog.String("sheet", grid.Sheet),
			slog.Int("rows", len(grid.Rows)))
		return grid, nil
	}
	return nil, fmt.Errorf("all decode engines failed for %s: %w", path, lastErr)
}

// decodeWorkbookBytes is decodeWorkbookFile for an in-memory download.
func decodeWorkbookBytes(data []byte, logger *slog.Logger) (*domain.RawGrid, error) {
	var lastErr error
	for _, engine := range engines {
		grid, err := engine.fromBytes(data)
		if err != nil {
			logger.Debug("Decode engine failed",
				slog.String("engine", engine.name),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		logger.Info("Workbook decoded",
			slog.String("engine", engine.name),
			slog.String("sheet", grid.Sheet),
			slog.Int("rows", len(grid.Rows)))
		return grid, nil
	}
	return nil, fmt.Errorf("all decode engines failed: %w", lastErr)
}

// gridFromStrings converts engine output (rows of formatted strings) into the
// tagged cell grid. Blank strings decode as absent, clean numerics as
// numbers, everything else as text.
func gridFromStrings(sheet string, rows [][]string) *domain.RawGrid {
	grid := &domain.RawGrid{Sheet: sheet, Rows: make([]domain.Row, 0, len(rows))}
	for _, r := range rows {
		cells := make(domain.Row, 0, len(r))
		for _, s := range r {
			cells = append(cells, cellFromString(s))
		}
		grid.Rows = append(grid.Rows, cells)
	}
	return grid
}

func cellFromString(s string) domain.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return domain.AbsentCell()
	}
	c := domain.TextCell(s)
	if v, ok := c.Float(); ok {
		return domain.NumberCell(v)
	}
	return c
}

// pickSheet returns the first client summary name variant present in names.
func pickSheet(names []string) (string, error) {
	for _, variant := range sheetVariants {
		for _, name := range names {
			if name == variant {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("client summary sheet not found, available sheets: %s", strings.Join(names, ", "))
}
