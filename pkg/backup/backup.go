package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"attendance-tracker/internal/models"
)

// FileName имя файла резервной копии по умолчанию
const FileName = "attendance_backup.json"

// Entry - структура для парсинга элемента резервной копии.
// Понимает как текущий формат {day,status,hours}, так и старый {giorno,stato,ore}.
type Entry struct {
	Day    string `json:"day"`
	Status string `json:"status"`
	Hours  *int   `json:"hours,omitempty"`

	Giorno string `json:"giorno,omitempty"`
	Stato  string `json:"stato,omitempty"`
	Ore    *int   `json:"ore,omitempty"`
}

// Record преобразует элемент в запись, часы вычисляются заново по статусу
func (e Entry) Record() (models.AttendanceRecord, error) {
	day := e.Day
	if day == "" {
		day = e.Giorno
	}
	rawStatus := e.Status
	if rawStatus == "" {
		rawStatus = e.Stato
	}

	if !models.IsValidDay(day) {
		return models.AttendanceRecord{}, fmt.Errorf("invalid day %q", day)
	}
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("day %s: %w", day, err)
	}

	return models.NewAttendanceRecord(day, status), nil
}

// Encode пишет записи как JSON массив без обертки
func Encode(w io.Writer, records []models.AttendanceRecord) error {
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	if err := json.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Decode читает JSON массив. Пустой ввод дает пустой список;
// любая некорректная запись отклоняет весь импорт.
func Decode(r io.Reader) ([]models.AttendanceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.AttendanceRecord{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backup: %w", err)
	}

	records := make([]models.AttendanceRecord, 0, len(entries))
	for i, entry := range entries {
		rec, err := entry.Record()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseFile - читает резервную копию с диска
func ParseFile(filePath string) ([]models.AttendanceRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
