package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"jobfinder-engine/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Canonical column headers, in file order.
const (
	ColTitle   = "Title"
	ColCompany = "Company"
	ColLink    = "Link"
)

var Columns = []string{ColTitle, ColCompany, ColLink}

// legacyHeaders maps headers written by older versions of the tool.
var legacyHeaders = map[string]string{
	"Titlu":    ColTitle,
	"Companie": ColCompany,
}

const sheetName = "Sheet1"

var (
	// ErrMalformed is returned for a ledger file without a Link column.
	ErrMalformed = errors.New("malformed job results file")
	// ErrCellTooLong is returned instead of letting a value over the
	// spreadsheet cell limit be cut short.
	ErrCellTooLong = fmt.Errorf("value longer than %d characters", excelize.TotalCellChars)
)

func canonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	if c, ok := legacyHeaders[h]; ok {
		return c
	}
	return h
}

// readTable loads every row of the first sheet. A missing file is an empty
// table.
func readTable(path string) ([]domain.Listing, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return []domain.Listing{}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []domain.Listing{}, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return []domain.Listing{}, nil
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		h = canonicalHeader(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	if _, ok := idx[ColLink]; !ok {
		return nil, fmt.Errorf("%w: %s has no %q column", ErrMalformed, path, ColLink)
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]domain.Listing, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, domain.Listing{
			Title:   cell(row, ColTitle),
			Company: cell(row, ColCompany),
			Link:    cell(row, ColLink),
		})
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// writeTable replaces path with a workbook holding the header row and rows,
// via a temp file in the same directory.
func writeTable(path string, rows []domain.Listing) error {
	for r, l := range rows {
		for c, v := range []string{l.Title, l.Company, l.Link} {
			if utf8.RuneCountInString(v) > excelize.TotalCellChars {
				return fmt.Errorf("row %d %s: %w", r+1, Columns[c], ErrCellTooLong)
			}
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return err
		}
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "C1", bold)
	}
	_ = f.SetColWidth(sheetName, "A", "B", 40)
	_ = f.SetColWidth(sheetName, "C", "C", 70)

	for r, l := range rows {
		for c, v := range []string{l.Title, l.Company, l.Link} {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(sheetName, cell, v); err != nil {
				return fmt.Errorf("row %d: %w", r+1, err)
			}
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".job_results-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
