package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open открывает SQLite базу. Одно соединение: хранилище локальное,
// писатель один, а ":memory:" живет только в рамках соединения.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
			logrus.Infof("Warning: Failed to enable WAL: %v", err)
		}
	}

	return db, nil
}

// Close закрывает соединение с БД
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
