package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmq-backend/internal/config"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

var DB *gorm.DB

// Init connects with retries, migrates the schema and sets DB.
func Init(cfg *config.Config) error {
	db, err := Open(cfg.DatabaseDSN, cfg.DBConnectTimeout)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	logger.Default().Info("database connected, migration complete")
	return nil
}

// Open picks the dialect from the DSN: "sqlite:<path>" uses the CGO-free
// SQLite driver, anything else is handed to postgres.
func Open(dsn string, timeout time.Duration) (*gorm.DB, error) {
	dialector := dialectorFor(dsn)
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var db *gorm.DB
	op := func() error {
		var err error
		db, err = gorm.Open(dialector, gcfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.Ping()
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = timeout
	notify := func(err error, next time.Duration) {
		logger.Default().WithError(err).WithField("retry_in", next.String()).Warn("database not reachable")
	}
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return nil, err
	}

	if isSQLite(dsn) {
		// one writer at a time; also keeps ":memory:" on a single connection
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			logger.Default().WithError(err).Warn("sqlite foreign keys not enabled")
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Field{},
		&models.Crop{},
		&models.YieldRecord{},
		&models.Prediction{},
		&models.AuditLog{},
	)
}

// Ping reports whether the shared connection answers within ctx.
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// UserScope restricts a query to rows owned by userID.
func UserScope(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func dialectorFor(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	return postgres.Open(dsn)
}

func isSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, sqlitePrefix)
}
