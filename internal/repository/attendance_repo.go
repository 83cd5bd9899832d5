package repository

import (
	"context"
	"errors"
	"fmt"

	"attendance-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidRecord = errors.New("invalid attendance record")

type AttendanceRepository interface {
	GetAll(ctx context.Context) ([]models.AttendanceRecord, error)
	Get(ctx context.Context, day string) (*models.AttendanceRecord, error)
	Put(ctx context.Context, record models.AttendanceRecord) error
	Delete(ctx context.Context, day string) error
	BulkPut(ctx context.Context, records []models.AttendanceRecord) error
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	// Автомиграция
	if err := db.AutoMigrate(&models.AttendanceRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance_records table")
		return nil, err
	}

	logger.Debug("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

// upsert перезаписывает все поля записи с тем же днем
func upsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "hours"}),
	}
}

func (r *GormAttendanceRepository) GetAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).Order("day ASC").Find(&records).Error; err != nil {
		r.logger.WithError(err).Error("Failed to get attendance records")
		return nil, err
	}

	r.logger.WithField("count", len(records)).Debug("Retrieved attendance records")
	return records, nil
}

func (r *GormAttendanceRepository) Get(ctx context.Context, day string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).Where("day = ?", day).First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.WithError(err).WithField("day", day).Error("Failed to get attendance record")
		return nil, err
	}

	return &record, nil
}

func (r *GormAttendanceRepository) Put(ctx context.Context, record models.AttendanceRecord) error {
	record.Normalize()
	if !record.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"day":    record.Day,
			"status": record.Status,
		}).Warn("Invalid attendance record")
		return fmt.Errorf("%w: day=%q status=%q", ErrInvalidRecord, record.Day, record.Status)
	}

	if err := r.db.WithContext(ctx).Clauses(upsert()).Create(&record).Error; err != nil {
		r.logger.WithError(err).WithField("day", record.Day).Error("Failed to put attendance record")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"day":    record.Day,
		"status": record.Status,
		"hours":  record.Hours,
	}).Debug("Attendance record stored")
	return nil
}

func (r *GormAttendanceRepository) Delete(ctx context.Context, day string) error {
	result := r.db.WithContext(ctx).Where("day = ?", day).Delete(&models.AttendanceRecord{})
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("day", day).Error("Failed to delete attendance record")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"day":     day,
		"deleted": result.RowsAffected,
	}).Debug("Attendance record deleted")
	return nil
}

// BulkPut записывает пачку одной транзакцией: при повторе дня побеждает
// последняя запись, при любой ошибке не записывается ничего.
func (r *GormAttendanceRepository) BulkPut(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	latest := make(map[string]int, len(records))
	batch := make([]models.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		rec.Normalize()
		if !rec.IsValid() {
			r.logger.WithFields(logrus.Fields{
				"day":    rec.Day,
				"status": rec.Status,
			}).Warn("Invalid attendance record in batch")
			return fmt.Errorf("%w: day=%q status=%q", ErrInvalidRecord, rec.Day, rec.Status)
		}
		if i, ok := latest[rec.Day]; ok {
			batch[i] = rec
			continue
		}
		latest[rec.Day] = len(batch)
		batch = append(batch, rec)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsert()).CreateInBatches(&batch, 100).Error
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to bulk put attendance records")
		return err
	}

	r.logger.WithField("count", len(batch)).Info("Attendance records imported")
	return nil
}
