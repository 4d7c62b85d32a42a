package fetcher

import (
	"bytes"
	"fmt"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"recruitcli/pkg/contracts/domain"
)

// decodeEngine is one spreadsheet reader. Engines are tried in order; the
// first one that opens the workbook and finds a client summary sheet wins.
type decodeEngine struct {
	name      string
	fromFile  func(path string) (*domain.RawGrid, error)
	fromBytes func(data []byte) (*domain.RawGrid, error)
}

var engines = []decodeEngine{
	{name: "excelize", fromFile: excelizeFromFile, fromBytes: excelizeFromBytes},
	{name: "xls", fromFile: xlsFromFile, fromBytes: xlsFromBytes},
}

func excelizeFromFile(path string) (*domain.RawGrid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return excelizeGrid(f)
}

func excelizeFromBytes(data []byte) (*domain.RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return excelizeGrid(f)
}

func excelizeGrid(f *excelize.File) (*domain.RawGrid, error) {
	sheet, err := pickSheet(f.GetSheetList())
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return gridFromStrings(sheet, rows), nil
}

func xlsFromFile(path string) (*domain.RawGrid, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return xlsGrid(&wb)
}

func xlsFromBytes(data []byte) (*domain.RawGrid, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return xlsGrid(&wb)
}

func xlsGrid(wb *xls.Workbook) (*domain.RawGrid, error) {
	names := make([]string, 0, wb.GetNumberSheets())
	for i := 0; i < wb.GetNumberSheets(); i++ {
		if s, err := wb.GetSheet(i); err == nil {
			names = append(names, s.GetName())
		}
	}

	target, err := pickSheet(names)
	if err != nil {
		return nil, err
	}

	for i := 0; i < wb.GetNumberSheets(); i++ {
		s, err := wb.GetSheet(i)
		if err != nil || s.GetName() != target {
			continue
		}
		rows := make([][]string, 0, s.GetNumberRows())
		for j := 0; j < s.GetNumberRows(); j++ {
			r, err := s.GetRow(j)
			if err != nil {
				rows = append(rows, nil)
				continue
			}
			var cells []string
			for _, col := range r.GetCols() {
				cells = append(cells, col.GetString())
			}
			rows = append(rows, cells)
		}
		return gridFromStrings(target, rows), nil
	}
	return nil, fmt.Errorf("sheet %q disappeared from workbook", target)
}
