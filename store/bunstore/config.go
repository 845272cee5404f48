package bunstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config selects the SQL driver and connection settings.
type Config struct {
	Driver       string        `yaml:"driver"`
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnMaxLife  time.Duration `yaml:"conn_max_life"`
	// LogQueries installs a slog query hook on the returned DB.
	LogQueries bool `yaml:"log_queries"`
}

// DefaultConfig returns an in-memory SQLite configuration.
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "file::memory:?cache=shared",
		MaxOpenConns: 1,
	}
}

// Validate checks the driver name and DSN.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres, DriverMySQL)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
		validation.Field(&c.MaxIdleConns, validation.Min(0)),
	)
}

// Open validates cfg, opens the database and wraps it with the matching bun
// dialect. logger is used by the query hook when cfg.LogQueries is set; nil
// means slog.Default().
func Open(cfg Config, logger *slog.Logger) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		driverName string
		dialect    schema.Dialect
	)
	switch cfg.Driver {
	case DriverSQLite:
		driverName, dialect = "sqlite", sqlitedialect.New()
	case DriverPostgres:
		driverName, dialect = "pgx", pgdialect.New()
	case DriverMySQL:
		driverName, dialect = "mysql", mysqldialect.New()
	}

	sqldb, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("bunstore: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	db := bun.NewDB(sqldb, dialect)
	if cfg.LogQueries {
		db.AddQueryHook(NewQueryHook(logger))
	}
	return db, nil
}
