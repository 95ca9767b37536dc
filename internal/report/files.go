package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a monthly report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps "csv" (or "") and "xlsx" to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown report format %q: must be csv or xlsx", s)
	}
}

// monthlyRows is the table shared by the CSV and XLSX renditions. Empty
// rows separate sections.
func monthlyRows(r MonthlyReport) [][]string {
	rows := [][]string{
		{"Safe Shelter Monthly Report", r.Month},
		{},
		{"Metric", "Value"},
		{"New Residents", strconv.Itoa(r.NewResidents)},
		{"Total Residents", strconv.Itoa(r.TotalResidents)},
		{},
		{"Service Type", "Count"},
	}
	for _, tc := range r.Services {
		rows = append(rows, []string{tc.ServiceType, strconv.Itoa(tc.Count)})
	}
	return rows
}

// WriteMonthlyCSV writes the monthly report as CSV with CRLF line endings.
func WriteMonthlyCSV(w io.Writer, r MonthlyReport) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(monthlyRows(r)); err != nil {
		return fmt.Errorf("write monthly csv: %w", err)
	}
	return nil
}

// WriteMonthlyXLSX writes the monthly report as a single-sheet workbook.
func WriteMonthlyXLSX(w io.Writer, r MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Monthly Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, row := range monthlyRows(r) {
		rowNum := i + 1
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			// Counts go in as numbers so the sheet can sum them.
			var v any = value
			if n, convErr := strconv.Atoi(value); convErr == nil && j == 1 && rowNum > 1 {
				v = n
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
		if isHeaderRow(row) {
			if err := f.SetRowStyle(sheet, rowNum, rowNum, bold); err != nil {
				return fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write monthly xlsx: %w", err)
	}
	return nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	switch row[0] {
	case "Safe Shelter Monthly Report", "Metric", "Service Type":
		return true
	}
	return false
}

// WriteSystemText writes the plain-text system report file.
func WriteSystemText(w io.Writer, r SystemReport) error {
	var b strings.Builder
	fmt.Fprintln(&b, "Safe Shelter System Report")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(timestampLayout))
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total Residents: %d\n", r.TotalResidents)
	fmt.Fprintf(&b, "Total Services: %d\n", r.TotalServices)
	fmt.Fprintf(&b, "Recent Residents (%d days): %d\n", RecentWindowDays, r.RecentResidents)
	fmt.Fprintf(&b, "Recent Services (%d days): %d\n", RecentWindowDays, r.RecentServices)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write system text: %w", err)
	}
	return nil
}

// MonthlyFileName is the file a monthly report is saved under.
func MonthlyFileName(r MonthlyReport, format Format) string {
	return fmt.Sprintf("shelter_report_%s.%s", r.Month, format)
}

// SystemFileName is the file a system report is saved under.
func SystemFileName(r SystemReport) string {
	return fmt.Sprintf("system_report_%s.txt", r.GeneratedAt.Format("20060102_150405"))
}

// Writer saves report files into Dir.
type Writer struct {
	Dir string
}

// SaveMonthly writes r to Dir in format and returns the file path.
func (w Writer) SaveMonthly(r MonthlyReport, format Format) (string, error) {
	write := WriteMonthlyCSV
	if format == FormatXLSX {
		write = WriteMonthlyXLSX
	}
	return w.save(MonthlyFileName(r, format), func(out io.Writer) error {
		return write(out, r)
	})
}

// SaveSystem writes r to Dir as text and returns the file path.
func (w Writer) SaveSystem(r SystemReport) (string, error) {
	return w.save(SystemFileName(r), func(out io.Writer) error {
		return WriteSystemText(out, r)
	})
}

func (w Writer) save(name string, write func(io.Writer) error) (path string, err error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()

	if err := write(f); err != nil {
		return "", err
	}
	return path, nil
}
