package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	excelSheetName     = "Results"
	errorBgColor       = "FF5900"
	fallbackBgColor    = "FFD966"
	defaultColumnWidth = 24
)

var excelHeaders = []string{
	"#", "Test", "Method", "Path", "Result", "Status", "Message", "Duration (ms)", "Timestamp", "Curl",
}

// WriteExcel exports a run as a spreadsheet: one row per result, failed rows highlighted, and a
// summary block under the table.
func WriteExcel(path string, record RunRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	sheet := excelSheetName

	lastCol, _ := excelize.ColumnNumberToName(len(excelHeaders))
	if err := f.SetColWidth(sheet, "A", lastCol, defaultColumnWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	_ = f.SetColWidth(sheet, "A", "A", 6)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	errorStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{errorBgColor}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	fallbackStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fallbackBgColor}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, header := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	for i, result := range record.Results {
		row := i + 2
		values := []interface{}{
			i + 1,
			result.Name,
			result.Method,
			result.Path,
			string(result.Kind),
			result.StatusCode,
			result.Message,
			result.Duration.Milliseconds(),
			result.Timestamp.Format("2006-01-02 15:04:05"),
			result.Curl,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		switch {
		case !result.Success:
			_ = f.SetCellStyle(sheet, first, last, errorStyle)
		case result.Fallback:
			_ = f.SetCellStyle(sheet, first, last, fallbackStyle)
		}
	}

	writeExcelSummary(f, sheet, len(record.Results)+3, record.Meta)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}

func writeExcelSummary(f *excelize.File, sheet string, startRow int, meta RunMeta) {
	rows := [][2]interface{}{
		{"Summary", ""},
		{"Base URL", meta.BaseURL},
		{"Started", meta.StartedAt},
		{"Duration", meta.Duration},
		{"Total Tests", meta.Total},
		{"Passed", meta.Passed},
		{"Failed", meta.Failed},
		{"Success Rate", fmt.Sprintf("%.1f%%", meta.SuccessRate)},
	}
	for i, r := range rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", startRow+i), r[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", startRow+i), r[1])
	}
}
