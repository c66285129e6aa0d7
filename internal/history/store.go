// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/db"
)

const (
	// Retention is how long entries are kept
	Retention    = 90 * 24 * time.Hour
	defaultLimit = 500
)

var schemas = map[db.DriverType][]string{
	db.SQLite: {`
		CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_name TEXT NOT NULL,
			prompt TEXT NOT NULL,
			ticker TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			executed_at TIMESTAMP NOT NULL,
			duration_ms INTEGER NOT NULL,
			report_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_profile ON search_history(profile_name)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_executed_at ON search_history(executed_at)`,
	},
	db.Postgres: {`
		CREATE TABLE IF NOT EXISTS search_history (
			id BIGSERIAL PRIMARY KEY,
			profile_name TEXT NOT NULL,
			prompt TEXT NOT NULL,
			ticker TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			executed_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL,
			report_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_profile ON search_history(profile_name)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_executed_at ON search_history(executed_at)`,
	},
	db.MySQL: {`
		CREATE TABLE IF NOT EXISTS search_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			profile_name VARCHAR(191) NOT NULL,
			prompt TEXT NOT NULL,
			ticker VARCHAR(32) NOT NULL DEFAULT '',
			company_name VARCHAR(255) NOT NULL DEFAULT '',
			executed_at DATETIME(3) NOT NULL,
			duration_ms BIGINT NOT NULL,
			report_count INT NOT NULL,
			status VARCHAR(16) NOT NULL,
			message TEXT NOT NULL,
			error_message TEXT NOT NULL,
			INDEX idx_search_history_profile (profile_name),
			INDEX idx_search_history_executed_at (executed_at)
		)`,
	},
}

func init() {
	schemas[db.PostgresPQ] = schemas[db.Postgres]
}

const selectColumns = `SELECT id, profile_name, prompt, ticker, company_name, executed_at,
	duration_ms, report_count, status, message, error_message FROM search_history`

// Store manages search history persistence
type Store struct {
	db    *db.DB
	limit int
}

// NewStore opens the store described by cfg. An empty sqlite DSN means
// the XDG data file.
func NewStore(cfg config.History) (*Store, error) {
	driver, err := db.ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DSN
	if dsn == "" && driver == db.SQLite {
		if dsn, err = xdg.DataFile("irfinder/history.db"); err != nil {
			return nil, err
		}
	}
	return Open(context.Background(), driver, dsn, cfg.Limit)
}

// Open connects, creates the schema and prunes expired entries
func Open(ctx context.Context, driver db.DriverType, dsn string, limit int) (*Store, error) {
	conn, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schemas[driver] {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, db.WrapQueryError("create schema", err)
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	store := &Store{db: conn, limit: limit}
	if err := store.cleanup(); err != nil {
		log.Warn().Err(err).Msg("history cleanup failed")
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a search into history, then prunes the profile to its limit
func (s *Store) Add(entry *Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	entry.ExecutedAt = entry.ExecutedAt.UTC()
	args := []interface{}{
		entry.ProfileName, entry.Prompt, entry.Ticker, entry.CompanyName, entry.ExecutedAt,
		entry.DurationMs, entry.ReportCount, entry.Status, entry.Message, entry.ErrorMessage,
	}
	insert := `INSERT INTO search_history (profile_name, prompt, ticker, company_name, executed_at,
		duration_ms, report_count, status, message, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if s.db.IsPostgres() {
		// lib/pq and pgx do not implement LastInsertId
		err := s.db.QueryRow(s.db.Rebind(insert+" RETURNING id"), args...).Scan(&entry.ID)
		if err != nil {
			return db.WrapQueryError("insert history", err)
		}
	} else {
		res, err := s.db.Exec(insert, args...)
		if err != nil {
			return db.WrapQueryError("insert history", err)
		}
		if entry.ID, err = res.LastInsertId(); err != nil {
			return db.WrapQueryError("insert history", err)
		}
	}

	return s.enforceLimit(entry.ProfileName, s.limit)
}

// enforceLimit keeps only the most recent N entries per profile
func (s *Store) enforceLimit(profileName string, limit int) error {
	var cutoff int64
	err := s.db.QueryRow(s.db.Rebind(`
		SELECT id FROM search_history
		WHERE profile_name = ?
		ORDER BY id DESC
		LIMIT 1 OFFSET ?
	`), profileName, limit).Scan(&cutoff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return db.WrapQueryError("prune history", err)
	}
	_, err = s.db.Exec(s.db.Rebind(`DELETE FROM search_history WHERE profile_name = ? AND id <= ?`), profileName, cutoff)
	return db.WrapQueryError("prune history", err)
}

// List returns paginated history entries for a profile, newest first
func (s *Store) List(profileName string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(s.db.Rebind(selectColumns+`
		WHERE profile_name = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`), profileName, limit, offset)
	if err != nil {
		return nil, db.WrapQueryError("list history", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds entries whose prompt, ticker or company contains substr
func (s *Store) Search(profileName, substr string, limit int) ([]Entry, error) {
	like := "%" + substr + "%"
	rows, err := s.db.Query(s.db.Rebind(selectColumns+`
		WHERE profile_name = ? AND (prompt LIKE ? OR ticker LIKE ? OR company_name LIKE ?)
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`), profileName, like, like, like, limit)
	if err != nil {
		return nil, db.WrapQueryError("search history", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ProfileName, &e.Prompt, &e.Ticker, &e.CompanyName, &e.ExecutedAt,
		&e.DurationMs, &e.ReportCount, &e.Status, &e.Message, &e.ErrorMessage)
	return e, err
}

// scanEntries scans rows into an Entry slice
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, db.WrapQueryError("scan history", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID retrieves a single entry; nil when it does not exist
func (s *Store) GetByID(id int64) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRow(s.db.Rebind(selectColumns+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.WrapQueryError("get history", err)
	}
	return &e, nil
}

// Delete removes a history entry by ID
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(s.db.Rebind("DELETE FROM search_history WHERE id = ?"), id)
	return db.WrapQueryError("delete history", err)
}

// cleanup removes entries older than Retention
func (s *Store) cleanup() error {
	cutoff := time.Now().Add(-Retention).UTC()
	_, err := s.db.Exec(s.db.Rebind(`DELETE FROM search_history WHERE executed_at < ?`), cutoff)
	return db.WrapQueryError("cleanup history", err)
}

// Count returns the total number of history entries for a profile
func (s *Store) Count(profileName string) (int, error) {
	var count int
	err := s.db.QueryRow(s.db.Rebind(`SELECT COUNT(*) FROM search_history WHERE profile_name = ?`), profileName).Scan(&count)
	return count, db.WrapQueryError("count history", err)
}
