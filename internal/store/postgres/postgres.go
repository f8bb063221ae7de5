// Package postgres implements the write path (C6) and both read paths
// (C7 by-id, C8 connection) against PostgreSQL via GORM, grounded on the
// teacher's database/postgres + database/helper init/error-wrapping idiom.
package postgres

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sellershut/categories/internal/errs"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique-constraint
// conflict (e.g. a Create reusing an existing id).
const pgUniqueViolation = "23505"

// Config configures the PostgreSQL connection pool.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store is the gorm.DB-backed implementation of category.Store.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and tunes the underlying connection pool. It
// does not migrate the schema; call AutoMigrate separately during
// bootstrap.
func Open(cfg Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB handle")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Store{db: db}, nil
}

// DB exposes the underlying *gorm.DB, for AutoMigrate and health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// classify maps a gorm/sql error to the errs taxonomy.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.NotFound, err, msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errs.Wrap(errs.Invalid, err, msg+": id already exists")
	}
	return errs.Wrap(errs.Internal, err, msg)
}
