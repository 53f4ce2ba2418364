package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown database driver")

//go:embed schema/*.sql
var schemas embed.FS

// DB is a connection pool together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the database named by driver and dsn.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverMySQL:
		return NewDB(dsn)
	case DriverSQLite:
		return NewSQLiteDB(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewDB creates a MySQL connection pool for dsn. A failed ping is logged but
// not fatal, so the public endpoints keep working while the database is down.
func NewDB(dsn string) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		slog.Warn("database ping failed, continuing without DB", "addr", cfg.Addr, "error", err)
	}

	return &DB{DB: db, driver: DriverMySQL}, nil
}

// NewSQLiteDB opens the SQLite database at path (":memory:" for a private
// in-memory one) and creates the schema.
func NewSQLiteDB(path string) (*DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: writes serialize anyway and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	d := &DB{DB: db, driver: DriverSQLite}
	if err := d.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Driver returns the driver name the pool was opened with.
func (d *DB) Driver() string {
	return d.driver
}

// Migrate creates any missing tables.
func (d *DB) Migrate(ctx context.Context) error {
	schema, err := schemas.ReadFile("schema/" + d.driver + ".sql")
	if err != nil {
		return fmt.Errorf("reading %s schema: %w", d.driver, err)
	}

	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
