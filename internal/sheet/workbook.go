package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"clawledge/pkg/models"
)

// Layout names how a sheet was read.
type Layout string

const (
	LayoutEmpty       Layout = "empty or header-only"
	LayoutSingle      Layout = "single-column"
	LayoutMultiColumn Layout = "multi-column"
)

// Sheet is one worksheet as a grid of cell strings; row 0 is the header.
type Sheet struct {
	Name string
	Rows [][]string
}

type Workbook struct {
	Path   string
	Sheets []Sheet
}

// SheetReport describes what ParseWorkbook did with one sheet.
type SheetReport struct {
	Name    string
	Rows    int // data rows, header excluded
	Layout  Layout
	Columns ColumnMap
	Cases   int
}

// Import is the combined result of every sheet in a workbook.
type Import struct {
	Cases  []models.PartialCase
	Sheets []SheetReport
}

// ReadWorkbook loads every sheet of an .xlsx file in tab order.
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// ParseWorkbook extracts partial cases from every sheet.
func ParseWorkbook(wb *Workbook) Import {
	var out Import
	for _, s := range wb.Sheets {
		cases, report := ParseSheet(s)
		out.Cases = append(out.Cases, cases...)
		out.Sheets = append(out.Sheets, report)
	}
	return out
}

// ParseSheet routes one sheet to column extraction or the free-text parser.
func ParseSheet(s Sheet) ([]models.PartialCase, SheetReport) {
	report := SheetReport{Name: s.Name, Columns: NewColumnMap()}
	if len(s.Rows) < 2 {
		report.Layout = LayoutEmpty
		return nil, report
	}

	header, data := s.Rows[0], s.Rows[1:]
	report.Rows = len(data)
	m := DetectColumns(header, data)
	report.Columns = m

	var cases []models.PartialCase
	if freeText(m, header, data) {
		report.Layout = LayoutSingle
		cases = ParseFreeText(data, s.Name)
	} else {
		report.Layout = LayoutMultiColumn
		for _, row := range data {
			if blank(row) {
				continue
			}
			if p, ok := ExtractCase(row, m, s.Name); ok {
				cases = append(cases, p)
			}
		}
	}
	report.Cases = len(cases)
	return cases, report
}

// freeText reports whether a sheet holds prose blocks rather than a table:
// no url and no title column, or a lone column whose header names no field.
func freeText(m ColumnMap, header []string, data [][]string) bool {
	if m.URL == Absent && m.Title == Absent {
		return true
	}
	width := len(header)
	for _, r := range data {
		if len(r) > width {
			width = len(r)
		}
	}
	if width > 1 {
		return false
	}
	return DetectWith([]Strategy{HeaderStrategy{}}, header, nil) == NewColumnMap()
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
