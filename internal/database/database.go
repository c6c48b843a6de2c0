package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledgertrack-app/ledgertrack/internal/config"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already in use")
)

// Database wraps the SQL connection. It is created once at startup and passed
// to every component that needs storage; there is no package-level handle.
type Database struct {
	conn   *sql.DB
	dbType string
}

// Open initializes the database connection and runs migrations.
func Open(cfg *config.Config) (*Database, error) {
	var conn *sql.DB
	var err error

	switch cfg.Database.Type {
	case "postgres":
		conn, err = openPostgreSQL(cfg)
	case "sqlite", "":
		conn, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &Database{conn: conn, dbType: cfg.Database.Type}
	if db.dbType == "" {
		db.dbType = "sqlite"
	}

	log.Printf("Running database migrations (%s)", db.dbType)
	if err := RunMigrations(conn, db.dbType); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// openPostgreSQL opens a PostgreSQL connection
func openPostgreSQL(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
	log.Printf("Connecting to PostgreSQL at %s:%s/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	return sql.Open("postgres", connStr)
}

// openSQLite opens a SQLite connection, retrying while the file is locked
func openSQLite(cfg *config.Config) (*sql.DB, error) {
	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := cfg.Database.Path + "?_foreign_keys=on&_busy_timeout=5000"
	if cfg.Database.WALMode {
		dsn += "&_journal_mode=WAL"
	}
	log.Printf("Opening SQLite database at %s", cfg.Database.Path)

	var lastErr error
	for i := 0; i < cfg.Database.MaxRetries; i++ {
		db, err := sql.Open("sqlite3", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db, nil
			}
			db.Close()
		}
		lastErr = err
		log.Printf("Attempt %d/%d failed: %v", i+1, cfg.Database.MaxRetries, err)
		time.Sleep(time.Duration(cfg.Database.RetryDelay) * time.Second)
	}
	return nil, fmt.Errorf("failed to open SQLite database: %w", lastErr)
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Conn exposes the raw connection for migrations and tests.
func (d *Database) Conn() *sql.DB {
	return d.conn
}

// rebind converts ?-style placeholders to $n for PostgreSQL. Queries in this
// package are written with ? and rebound per dialect.
func (d *Database) rebind(query string) string {
	if d.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
