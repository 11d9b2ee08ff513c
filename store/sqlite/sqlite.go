/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  Implements generic.RecordStore using SQLite through database/sql. The
  same SQL works on PostgreSQL with minor dialect changes.

KEY TABLES:
  staff:       roster
  vacations:   vacation-taken events (staff_id -> staff)
  absences:    leave / medical absences (staff_id -> staff)
  shift_swaps: one row per swap, referencing both participants

DATES:
  Calendar dates are stored as YYYY-MM-DD text and read back anchored at
  noon in the store's Location, the same as any other parsed date.

ORDERING:
  Lists come back in insertion order (rowid).

REFERENTIAL INTEGRITY:
  Foreign keys are on. Writing a record for an unknown staff id returns
  *NotFoundError; deleting a staff member who still owns rows returns
  ErrConflict.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WAL mode lets readers proceed while
  a single writer commits.

USAGE:
  store, err := sqlite.New("./data/staff.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/staff-ledger/generic"
)

// Store implements generic.RecordStore using SQLite.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	loc   *time.Location
	clock generic.Clock
}

var _ generic.RecordStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, loc: time.Local, clock: generic.Today}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// WithLocation sets the zone dates are anchored in when read back.
func (s *Store) WithLocation(loc *time.Location) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc != nil {
		s.loc = loc
	}
	return s
}

// WithClock pins the CreatedAt stamp for added rows.
func (s *Store) WithClock(clock generic.Clock) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
	return s
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		birth_date TEXT,
		termination_date TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		position TEXT NOT NULL DEFAULT '',
		shift TEXT NOT NULL DEFAULT '',
		schedule TEXT NOT NULL DEFAULT '',
		post TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vacations (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id),
		acquisition_start TEXT,
		acquisition_end TEXT,
		available_from TEXT,
		expires_on TEXT,
		vacation_start TEXT NOT NULL,
		vacation_end TEXT,
		days_taken INTEGER NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Per-period balance lookups
	CREATE INDEX IF NOT EXISTS idx_vacations_staff_acquisition
		ON vacations(staff_id, acquisition_start);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id),
		absence_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		days_count INTEGER NOT NULL DEFAULT 0 CHECK (days_count >= 0),
		document_number TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_staff
		ON absences(staff_id);

	CREATE TABLE IF NOT EXISTS shift_swaps (
		id TEXT PRIMARY KEY,
		requester_id TEXT NOT NULL REFERENCES staff(id),
		target_id TEXT NOT NULL REFERENCES staff(id),
		original_date TEXT NOT NULL,
		swap_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		CHECK (requester_id <> target_id)
	);

	CREATE INDEX IF NOT EXISTS idx_swaps_requester ON shift_swaps(requester_id);
	CREATE INDEX IF NOT EXISTS idx_swaps_target ON shift_swaps(target_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data (useful for testing).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"shift_swaps", "absences", "vacations", "staff"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return generic.NewStoreError("reset "+table, err)
		}
	}
	return nil
}

// =============================================================================
// STAFF
// =============================================================================

const staffColumns = `id, name, hire_date, birth_date, termination_date, status,
	position, shift, schedule, post, created_at`

func (s *Store) ListStaff(ctx context.Context) ([]generic.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+staffColumns+" FROM staff ORDER BY rowid")
	if err != nil {
		return nil, generic.NewStoreError("list staff", err)
	}
	defer rows.Close()

	var out []generic.StaffMember
	for rows.Next() {
		m, err := s.scanStaff(rows)
		if err != nil {
			return nil, generic.NewStoreError("list staff", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, generic.NewStoreError("list staff", err)
	}
	return out, nil
}

func (s *Store) GetStaff(ctx context.Context, id generic.StaffID) (generic.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", string(id))
	m, err := s.scanStaff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.StaffMember{}, generic.NewNotFoundError("staff", string(id))
	}
	if err != nil {
		return generic.StaffMember{}, generic.NewStoreError("get staff", err)
	}
	return m, nil
}

func (s *Store) AddStaff(ctx context.Context, m generic.StaffMember) (generic.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = generic.StaffID(uuid.NewString())
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (`+staffColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), m.Name, m.HireDate.String(),
		nullDate(m.BirthDate), nullDate(m.TerminationDate), string(m.Status),
		m.Position, m.Shift, m.Schedule, m.Post, m.CreatedAt.String(),
	)
	if err != nil {
		return generic.StaffMember{}, generic.NewStoreError("add staff", err)
	}
	return m, nil
}

func (s *Store) UpdateStaff(ctx context.Context, id generic.StaffID, m generic.StaffMember) (generic.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE staff SET
			name = ?, hire_date = ?, birth_date = ?, termination_date = ?, status = ?,
			position = ?, shift = ?, schedule = ?, post = ?
		WHERE id = ?`,
		m.Name, m.HireDate.String(), nullDate(m.BirthDate), nullDate(m.TerminationDate), string(m.Status),
		m.Position, m.Shift, m.Schedule, m.Post, string(id),
	)
	if err := affectedOne(res, err, "update staff", "staff", string(id)); err != nil {
		return generic.StaffMember{}, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", string(id))
	saved, err := s.scanStaff(row)
	if err != nil {
		return generic.StaffMember{}, generic.NewStoreError("update staff", err)
	}
	return saved, nil
}

func (s *Store) DeleteStaff(ctx context.Context, id generic.StaffID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM staff WHERE id = ?", string(id))
	if isForeignKeyError(err) {
		return fmt.Errorf("%w: staff %s still owns records", generic.ErrConflict, id)
	}
	return affectedOne(res, err, "delete staff", "staff", string(id))
}

func (s *Store) scanStaff(row scanner) (generic.StaffMember, error) {
	var (
		m                         generic.StaffMember
		id, status, hire, created string
		birth, termination        sql.NullString
	)
	err := row.Scan(&id, &m.Name, &hire, &birth, &termination, &status,
		&m.Position, &m.Shift, &m.Schedule, &m.Post, &created)
	if err != nil {
		return generic.StaffMember{}, err
	}

	m.ID = generic.StaffID(id)
	m.Status = generic.StaffStatus(status)
	if m.HireDate, err = s.date("hire_date", hire); err != nil {
		return generic.StaffMember{}, err
	}
	if m.BirthDate, err = s.optionalDate("birth_date", birth); err != nil {
		return generic.StaffMember{}, err
	}
	if m.TerminationDate, err = s.optionalDate("termination_date", termination); err != nil {
		return generic.StaffMember{}, err
	}
	if m.CreatedAt, err = s.date("created_at", created); err != nil {
		return generic.StaffMember{}, err
	}
	return m, nil
}

// =============================================================================
// Helper functions
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) date(field, value string) (generic.TimePoint, error) {
	return generic.ParseDate(field, value, s.loc)
}

func (s *Store) optionalDate(field string, value sql.NullString) (*generic.TimePoint, error) {
	if !value.Valid {
		return nil, nil
	}
	tp, err := s.date(field, value.String)
	if err != nil {
		return nil, err
	}
	return tp.Ptr(), nil
}

func nullDate(tp *generic.TimePoint) sql.NullString {
	return nullString(generic.FormatPtr(tp))
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// affectedOne turns an exec result into nil, *NotFoundError or *StoreError.
func affectedOne(res sql.Result, err error, op, kind, id string) error {
	if err != nil {
		return generic.NewStoreError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return generic.NewStoreError(op, err)
	}
	if n == 0 {
		return generic.NewNotFoundError(kind, id)
	}
	return nil
}

// ownerError maps a foreign key violation on write to the missing staff id.
func ownerError(err error, op string, owners ...generic.StaffID) error {
	if isForeignKeyError(err) {
		ids := make([]string, len(owners))
		for i, o := range owners {
			ids[i] = string(o)
		}
		return generic.NewNotFoundError("staff", strings.Join(ids, ","))
	}
	return generic.NewStoreError(op, err)
}

func isForeignKeyError(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
