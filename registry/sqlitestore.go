package registry

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	id           INTEGER PRIMARY KEY,
	url          TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	timestamp    INTEGER NOT NULL,
	signature    BLOB NOT NULL,
	owner        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS owner_index (
	owner     TEXT NOT NULL,
	record_id INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_owner_index ON owner_index(owner, record_id);
CREATE TABLE IF NOT EXISTS live_hashes (
	content_hash TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
INSERT OR IGNORE INTO meta(key, value) VALUES ('count', 0);
`

// SQLiteStore persists registry state in a SQLite database. Each mutating
// call runs in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens or creates the SQLite database at dbPath and applies
// the schema. The parent directory is created if it does not exist.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("registry: create directory: %w", err)
	}

	dsn := filepath.Clean(dbPath) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("registry: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// CreateRecord assigns the next id and stores the record.
func (s *SQLiteStore) CreateRecord(rec *Record) (uint64, error) {
	if rec == nil {
		return 0, fmt.Errorf("%w: record", ErrNilParam)
	}
	// SQLite INTEGER columns are signed 64-bit; larger timestamps would
	// change sign on read-back.
	if rec.Timestamp > math.MaxInt64 {
		return 0, fmt.Errorf("%w: timestamp %d exceeds storable range", ErrInvalidInput, rec.Timestamp)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var live int
	err = tx.QueryRow(`SELECT COUNT(*) FROM live_hashes WHERE content_hash = ?`, rec.ContentHash).Scan(&live)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: check hash: %w", err)
	}
	if live > 0 {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateContent, rec.ContentHash)
	}

	var count int64
	if err := tx.QueryRow(`SELECT value FROM meta WHERE key = 'count'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlitestore: read counter: %w", err)
	}
	id := count + 1

	_, err = tx.Exec(
		`INSERT INTO records(id, url, content_hash, timestamp, signature, owner) VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.URL, rec.ContentHash, int64(rec.Timestamp), rec.Signature, rec.Owner,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: insert record: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO owner_index(owner, record_id) VALUES (?, ?)`, rec.Owner, id); err != nil {
		return 0, fmt.Errorf("sqlitestore: insert owner index entry: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO live_hashes(content_hash) VALUES (?)`, rec.ContentHash); err != nil {
		return 0, fmt.Errorf("sqlitestore: insert hash flag: %w", err)
	}
	if _, err := tx.Exec(`UPDATE meta SET value = ? WHERE key = 'count'`, id); err != nil {
		return 0, fmt.Errorf("sqlitestore: update counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return uint64(id), nil
}

// GetRecord retrieves a record by id.
func (s *SQLiteStore) GetRecord(id uint64) (*Record, error) {
	count, err := s.RecordCount()
	if err != nil {
		return nil, err
	}
	if id < 1 || id > count {
		return nil, fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, count)
	}

	rec := Record{}
	var ts int64
	err = s.db.QueryRow(
		`SELECT id, url, content_hash, timestamp, signature, owner FROM records WHERE id = ?`, int64(id),
	).Scan(&rec.ID, &rec.URL, &rec.ContentHash, &ts, &rec.Signature, &rec.Owner)
	if err == sql.ErrNoRows {
		// Cleared slot: in range but deleted reads back as defaults.
		return &Record{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: select record: %w", err)
	}
	rec.Timestamp = uint64(ts)
	return &rec, nil
}

// DeleteRecord clears the record slot and frees its content hash.
func (s *SQLiteStore) DeleteRecord(id uint64, owner string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int64
	if err := tx.QueryRow(`SELECT value FROM meta WHERE key = 'count'`).Scan(&count); err != nil {
		return fmt.Errorf("sqlitestore: read counter: %w", err)
	}
	if id < 1 || id > uint64(count) {
		return fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, count)
	}

	var recOwner, contentHash string
	err = tx.QueryRow(`SELECT owner, content_hash FROM records WHERE id = ?`, int64(id)).Scan(&recOwner, &contentHash)
	if err == sql.ErrNoRows {
		// A cleared slot has no owner, so it can never match the caller.
		return ErrNotOwner
	}
	if err != nil {
		return fmt.Errorf("sqlitestore: select record: %w", err)
	}
	if recOwner != owner {
		return ErrNotOwner
	}

	if _, err := tx.Exec(`DELETE FROM records WHERE id = ?`, int64(id)); err != nil {
		return fmt.Errorf("sqlitestore: delete record: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM live_hashes WHERE content_hash = ?`, contentHash); err != nil {
		return fmt.Errorf("sqlitestore: delete hash flag: %w", err)
	}
	// The owner's log entry stays: the index is append-only.

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return nil
}

// OwnerRecords returns the owner's append-only id log.
func (s *SQLiteStore) OwnerRecords(owner string) ([]uint64, error) {
	rows, err := s.db.Query(`SELECT record_id FROM owner_index WHERE owner = ? ORDER BY record_id`, owner)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: owner records: %w", err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan owner index entry: %w", err)
		}
		ids = append(ids, uint64(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: owner records: %w", err)
	}
	return ids, nil
}

// RecordCount returns the number of ids ever assigned.
func (s *SQLiteStore) RecordCount() (uint64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'count'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlitestore: read counter: %w", err)
	}
	return uint64(count), nil
}
