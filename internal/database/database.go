package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// sqliteParams makes every transaction take the write lock up front, so a
// compound read or write never observes another writer's partial change.
const sqliteParams = "_journal=WAL&_timeout=5000&_busy_timeout=5000&_txlock=immediate"

type Database struct {
	DB      *gorm.DB
	Changes *ChangeNotifier
}

type options struct {
	logLevel logger.LogLevel
}

// Option tweaks how NewDatabase opens the store.
type Option func(*options)

// WithLogLevel sets the GORM SQL log level ("silent", "error", "warn", "info").
func WithLogLevel(level string) Option {
	return func(o *options) {
		o.logLevel = ParseLogLevel(level)
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: newGormLogger(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %w", ErrStorageUnavailable, err)
	}

	err = db.AutoMigrate(
		&entities.Movie{},
		&entities.Genre{},
		&entities.MovieGenreCrossRef{},
		&entities.Setting{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to migrate database: %w", ErrStorageUnavailable, err)
	}

	log.Info().Str("path", dbPath).Msg("database initialized")

	return &Database{DB: db, Changes: NewChangeNotifier()}, nil
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(dbPath string) string {
	if strings.Contains(dbPath, "?") || strings.HasPrefix(dbPath, ":memory:") {
		return dbPath
	}
	return dbPath + "?" + sqliteParams
}
