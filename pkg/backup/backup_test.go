package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attendance-tracker/internal/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []models.AttendanceRecord{
		models.NewAttendanceRecord("2024-06-03", models.StatusWork),
		models.NewAttendanceRecord("2024-06-04", models.StatusRest),
		models.NewAttendanceRecord("2024-06-05", models.StatusClosed),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Errorf("backup should be a bare JSON array, got %s", buf.String())
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(decoded))
	}
	for i := range records {
		if decoded[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, decoded[i], records[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestDecodeLegacyKeys(t *testing.T) {
	input := `[{"giorno":"2024-06-03","stato":"LAVORO","ore":8},{"giorno":"2024-06-04","stato":"riposo"}]`

	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Status != models.StatusWork || records[0].Hours != 8 {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if records[1].Status != models.StatusRest || records[1].Hours != 4 {
		t.Errorf("unexpected second record %+v", records[1])
	}
}

func TestDecodeIgnoresSuppliedHours(t *testing.T) {
	records, err := Decode(strings.NewReader(`[{"day":"2024-06-03","status":"SICK","hours":8}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if records[0].Hours != 0 {
		t.Errorf("expected hours derived from status, got %d", records[0].Hours)
	}
}

func TestDecodeRejectsInvalidEntry(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad status", `[{"day":"2024-06-03","status":"WORK"},{"day":"2024-06-04","status":"PARTY"}]`},
		{"bad day", `[{"day":"2024-02-30","status":"WORK"}]`},
		{"not an array", `{"day":"2024-06-03","status":"WORK"}`},
		{"broken json", `[{"day":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Errorf("expected error, got %+v", records)
			}
		})
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	records, err := Decode(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`[{"day":"2024-06-03","status":"VACATION"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(records) != 1 || records[0].Status != models.StatusVacation {
		t.Errorf("unexpected records %+v", records)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
