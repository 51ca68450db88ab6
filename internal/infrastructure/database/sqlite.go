package database

import (
	"fmt"

	"medical-appointment-api/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewSQLiteConnection(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := OpenSQLite(SQLiteFileDSN(cfg.SQLitePath), newGormLogger(log))
	if err != nil {
		return nil, err
	}

	log.WithField("path", cfg.SQLitePath).Info("Successfully opened SQLite database")

	return db, nil
}

// OpenSQLite opens dsn with a single pooled connection, since SQLite allows one writer
// at a time and in-memory databases live only as long as their connection.
func OpenSQLite(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func SQLiteFileDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
}
