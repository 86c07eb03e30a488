package database

import (
	"fmt"
	"path/filepath"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wampcore/pkg/common/logger"
)

var (
	instance *gorm.DB
	once     sync.Once
)

// Open opens (or creates) the sqlite database at dsn and migrates models.
// Use ":memory:" for a throwaway database.
func Open(dsn string, models ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db failed: %w", err)
	}
	if dsn == ":memory:" {
		// every sqlite connection gets its own in-memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("auto migrate failed: %w", err)
		}
	}
	return db, nil
}

// Init opens the process-wide database <runtimeDir>/<dbName> once. Later
// calls return the same instance.
func Init(runtimeDir, dbName string, models ...interface{}) (*gorm.DB, error) {
	var initErr error
	once.Do(func() {
		dbPath := filepath.Join(runtimeDir, dbName)
		db, err := Open(dbPath, models...)
		if err != nil {
			initErr = err
			return
		}
		instance = db
		logger.WithComponent("database").Info().Str("db", dbPath).Msg("database initialized")
	})
	return instance, initErr
}

// Get returns the gorm DB instance
func Get() *gorm.DB { return instance }

// Close releases the process-wide database.
func Close() error {
	if instance == nil {
		return nil
	}
	sqlDB, err := instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
