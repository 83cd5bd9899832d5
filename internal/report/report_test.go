package report

import (
	"bytes"
	"strings"
	"testing"

	"attendance-tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

func testRecords() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		models.NewAttendanceRecord("2024-06-03", models.StatusWork),
		models.NewAttendanceRecord("2024-06-04", models.StatusRest),
		models.NewAttendanceRecord("2024-06-05", models.StatusSick),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "day,status,hours\n2024-06-03,WORK,8\n2024-06-04,REST,4\n2024-06-05,SICK,0\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV:\n%s", buf.String())
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	records := testRecords()
	summary := models.NewMonthSummary(2024, 6, records)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records, summary); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	sheets := f.GetSheetList()
	_ = f.Close()
	if len(sheets) != 2 || sheets[0] != "Attendance" || sheets[1] != "Summary" {
		t.Errorf("unexpected sheets %v", sheets)
	}

	got, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestWriteXLSXWithoutSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, testRecords(), nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("expected a single sheet, got %v", sheets)
	}
}

func TestReadXLSXRejectsBadRow(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "2024-06-03")
	_ = f.SetCellValue("Sheet1", "B1", "WORK")
	_ = f.SetCellValue("Sheet1", "A2", "2024-06-04")
	_ = f.SetCellValue("Sheet1", "B2", "PARTY")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	_, err := ReadXLSX(&buf)
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Errorf("expected row 2 error, got %v", err)
	}
}
