package repository

import (
	"context"
	"errors"

	"attendance-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheRepository хранит именованные кэши оффлайн-оболочки
type CacheRepository interface {
	Names(ctx context.Context) ([]string, error)
	Has(ctx context.Context, name string) (bool, error)
	Match(ctx context.Context, url string) (*models.CacheEntry, error)
	PutAll(ctx context.Context, name string, entries []models.CacheEntry) error
	DeleteCache(ctx context.Context, name string) error
}

type GormCacheRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormCacheRepository(db *gorm.DB) (*GormCacheRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	if err := db.AutoMigrate(&models.CacheEntry{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate cache_entries table")
		return nil, err
	}

	return &GormCacheRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormCacheRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.CacheEntry{}).
		Distinct().
		Order("cache_name ASC").
		Pluck("cache_name", &names).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to list cache names")
		return nil, err
	}
	return names, nil
}

func (r *GormCacheRepository) Has(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CacheEntry{}).
		Where("cache_name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Match ищет ответ по URL во всех кэшах, первым идет самый старый
func (r *GormCacheRepository) Match(ctx context.Context, url string) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	err := r.db.WithContext(ctx).Where("url = ?", url).Order("id ASC").First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.WithError(err).WithField("url", url).Error("Failed to match cache entry")
		return nil, err
	}
	return &entry, nil
}

// PutAll записывает все ответы в кэш name одной транзакцией
func (r *GormCacheRepository) PutAll(ctx context.Context, name string, entries []models.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].CacheName = name
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_name"}, {Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "header", "body"}),
		}).Create(&entries).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("cache", name).Error("Failed to populate cache")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"cache":   name,
		"entries": len(entries),
	}).Info("Cache populated")
	return nil
}

func (r *GormCacheRepository) DeleteCache(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("cache_name = ?", name).Delete(&models.CacheEntry{})
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("cache", name).Error("Failed to delete cache")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"cache":   name,
		"entries": result.RowsAffected,
	}).Info("Cache deleted")
	return nil
}
