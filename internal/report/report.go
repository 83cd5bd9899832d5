// Package report writes attendance records as CSV and XLSX spreadsheets and
// reads them back from XLSX.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"attendance-tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	CSVFileName  = "attendance.csv"
	XLSXFileName = "attendance.xlsx"

	recordsSheet = "Attendance"
	summarySheet = "Summary"
)

// WriteCSV writes a day,status,hours table.
func WriteCSV(w io.Writer, records []models.AttendanceRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"day", "status", "hours"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Day, string(r.Status), strconv.Itoa(r.Hours)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the records sheet and, when summary is not nil, a
// summary sheet for that month.
func WriteXLSX(w io.Writer, records []models.AttendanceRecord, summary *models.MonthSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return err
	}

	header := []string{"Day", "Status", "Hours"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(recordsSheet, cell, h); err != nil {
			return err
		}
	}

	styles, err := statusStyles(f)
	if err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		values := []interface{}{r.Day, string(r.Status), r.Hours}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(recordsSheet, cell, v); err != nil {
				return err
			}
		}
		if style, ok := styles[r.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(2, row)
			if err := f.SetCellStyle(recordsSheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	if summary != nil {
		if err := writeSummary(f, summary); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, summary *models.MonthSummary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Month", summary.Title()},
	}
	for _, s := range models.AllStatuses() {
		info, _ := s.Info()
		rows = append(rows, []interface{}{info.Label, summary.Days[s]})
	}
	rows = append(rows,
		[]interface{}{"Worked days", summary.WorkedDays},
		[]interface{}{"Total hours", summary.TotalHours},
	)

	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func statusStyles(f *excelize.File) (map[models.Status]int, error) {
	styles := make(map[models.Status]int, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		info, _ := s.Info()
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{info.Color}, Pattern: 1},
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		})
		if err != nil {
			return nil, err
		}
		styles[s] = id
	}
	return styles, nil
}

// ReadXLSX reads day/status rows from the first sheet. The first row is
// treated as a header when its first cell is not a date; hours are derived
// from the status and any hours column is ignored.
func ReadXLSX(r io.Reader) ([]models.AttendanceRecord, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	records := make([]models.AttendanceRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		day := strings.TrimSpace(row[0])
		if i == 0 && !models.IsValidDay(day) {
			continue
		}
		if !models.IsValidDay(day) {
			return nil, fmt.Errorf("row %d: invalid day %q", i+1, day)
		}
		status, err := models.ParseStatus(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, models.NewAttendanceRecord(day, status))
	}
	return records, nil
}
