// Package database owns the process-wide GORM handle.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/migrations"
)

// ErrNotReady is returned by DB when Init has not completed successfully.
var ErrNotReady = errors.New("database not initialized")

// Opener opens a GORM connection for the configured driver.
type Opener func(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error)

// Manager lazily opens and migrates the database exactly once. Concurrent
// first callers of Init share a single in-flight attempt; a failed attempt
// leaves the manager uninitialized so a later call can retry.
type Manager struct {
	cfg   config.DatabaseConfig
	open  Opener
	group singleflight.Group
	ready atomic.Bool

	mu sync.RWMutex
	db *gorm.DB
}

// NewManager creates a manager for cfg. Nothing is opened until Init.
func NewManager(cfg config.DatabaseConfig) *Manager {
	return &Manager{cfg: cfg, open: Open}
}

// NewManagerWithOpener is NewManager with a custom connection opener.
func NewManagerWithOpener(cfg config.DatabaseConfig, open Opener) *Manager {
	return &Manager{cfg: cfg, open: open}
}

// Init opens the connection and applies the schema. It is safe to call from
// many goroutines; only one connection attempt is in flight at a time.
func (m *Manager) Init(ctx context.Context) error {
	if m.ready.Load() {
		return nil
	}

	_, err, _ := m.group.Do("init", func() (interface{}, error) {
		if m.ready.Load() {
			return nil, nil
		}

		db, err := m.open(ctx, m.cfg)
		if err != nil {
			return nil, err
		}
		if err := migrateSchema(db, m.cfg); err != nil {
			closeDB(db)
			return nil, err
		}

		m.mu.Lock()
		m.db = db
		m.mu.Unlock()
		m.ready.Store(true)
		return nil, nil
	})
	return err
}

// IsReady reports whether Init has completed successfully.
func (m *Manager) IsReady() bool {
	return m.ready.Load()
}

// DB returns the initialized GORM handle.
func (m *Manager) DB() (*gorm.DB, error) {
	if !m.ready.Load() {
		return nil, ErrNotReady
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db, nil
}

// Ping checks connectivity of an initialized database.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.DB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool and marks the manager uninitialized.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ready.Store(false)
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	m.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open is the default Opener: PostgreSQL with a bounded pool, or a SQLite file.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN()})
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// migrateSchema applies the embedded SQL migrations on PostgreSQL and falls
// back to AutoMigrate on SQLite.
func migrateSchema(db *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.Driver != "postgres" {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}
	return RunMigrations(cfg.URL())
}

// RunMigrations applies pending SQL migrations embedded in the binary.
func RunMigrations(databaseURL string) error {
	logger.Get().Info("Running database migrations...")

	mig, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer CloseMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// NewMigrator builds a golang-migrate instance over the embedded migrations.
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// CloseMigrator closes both halves of a migrate instance, logging failures.
func CloseMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
