package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/tutoriq/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time checks: Store implements the persistence ports.
var (
	_ domain.SlotRepository    = (*Store)(nil)
	_ domain.TutorRepository   = (*Store)(nil)
	_ domain.EligibilityChecks = (*Store)(nil)
	_ domain.UnitOfWork        = (*Store)(nil)
)

// Store implements the persistence ports using SQLite. A single Store
// backs the slot repository, the tutor read model, the eligibility
// queries and the unit of work, all over one *sql.DB.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready store.
func New(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready store.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*Store, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (s *Store) DB() *sql.DB {
	return s.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05Z"

// querier is satisfied by both *sql.DB and *sql.Tx, letting repository
// methods run inside or outside a unit of work transparently.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q resolves the active querier: the transaction carried by ctx when
// running inside the unit of work, the plain connection otherwise.
func (s *Store) q(ctx context.Context) querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return s.db
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatNullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func parseNullTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	return parseTime(s.String)
}

// Slot statuses are persisted as small integers.
var slotStatusCodes = map[domain.Status]int{
	domain.StatusAvailable:   1,
	domain.StatusReserved:    2,
	domain.StatusBooked:      3,
	domain.StatusUnavailable: 4,
}

var slotStatusFromCode = map[int]domain.Status{
	1: domain.StatusAvailable,
	2: domain.StatusReserved,
	3: domain.StatusBooked,
	4: domain.StatusUnavailable,
}

var tutorStatusCodes = map[domain.TutorStatus]int{
	domain.TutorStatusActive:    1,
	domain.TutorStatusInactive:  2,
	domain.TutorStatusSuspended: 3,
	domain.TutorStatusDeleted:   4,
}

var tutorStatusFromCode = map[int]domain.TutorStatus{
	1: domain.TutorStatusActive,
	2: domain.TutorStatusInactive,
	3: domain.TutorStatusSuspended,
	4: domain.TutorStatusDeleted,
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
