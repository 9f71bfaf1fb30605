package registry

import (
	"fmt"
	"sync"
)

// Store is the persisted registry state: records by id, the per-owner
// append-only id log, the live content-hash set, and the id counter.
// Implementations must apply each mutating call atomically: a failed
// precondition leaves no partial state behind.
type Store interface {
	// CreateRecord assigns the next id, writes the record, appends the id
	// to the owner's log, and marks the content hash live. Returns the new
	// id, or ErrDuplicateContent if the hash is already live.
	CreateRecord(rec *Record) (uint64, error)

	// GetRecord retrieves a record by id. An id inside the assigned range
	// whose record was deleted yields a zero-value record.
	GetRecord(id uint64) (*Record, error)

	// DeleteRecord clears the record slot and frees its content hash.
	// Ownership is checked inside the same transaction. The owner's log
	// entry is left dangling.
	DeleteRecord(id uint64, owner string) error

	// OwnerRecords returns the owner's append-only id log, including ids of
	// records that have since been deleted. Unknown owners yield an empty
	// log.
	OwnerRecords(owner string) ([]uint64, error)

	// RecordCount returns the number of ids ever assigned.
	RecordCount() (uint64, error)

	// Close releases storage resources.
	Close() error
}

// MemStore is an in-memory Store for tests and embedding.
type MemStore struct {
	mu      sync.RWMutex
	records map[uint64]*Record
	owners  map[string][]uint64
	hashes  map[string]bool
	count   uint64
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[uint64]*Record),
		owners:  make(map[string][]uint64),
		hashes:  make(map[string]bool),
	}
}

// CreateRecord assigns the next id and stores the record.
func (s *MemStore) CreateRecord(rec *Record) (uint64, error) {
	if rec == nil {
		return 0, fmt.Errorf("%w: record", ErrNilParam)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hashes[rec.ContentHash] {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateContent, rec.ContentHash)
	}

	id := s.count + 1
	stored := *rec
	stored.ID = id
	stored.Signature = append([]byte(nil), rec.Signature...)

	s.records[id] = &stored
	s.owners[rec.Owner] = append(s.owners[rec.Owner], id)
	s.hashes[rec.ContentHash] = true
	s.count = id

	return id, nil
}

// GetRecord retrieves a record by id.
func (s *MemStore) GetRecord(id uint64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > s.count {
		return nil, fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, s.count)
	}

	rec, ok := s.records[id]
	if !ok {
		// Cleared slot: in range but deleted reads back as defaults.
		return &Record{ID: id}, nil
	}

	out := *rec
	out.Signature = append([]byte(nil), rec.Signature...)
	return &out, nil
}

// DeleteRecord clears the record slot and frees its content hash.
func (s *MemStore) DeleteRecord(id uint64, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > s.count {
		return fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, s.count)
	}

	rec := s.records[id]
	if rec == nil || rec.Owner != owner {
		// A cleared slot has no owner, so it can never match the caller.
		return ErrNotOwner
	}

	delete(s.hashes, rec.ContentHash)
	delete(s.records, id)
	// The owner's log entry stays: the index is append-only.

	return nil
}

// OwnerRecords returns the owner's append-only id log.
func (s *MemStore) OwnerRecords(owner string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.owners[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

// RecordCount returns the number of ids ever assigned.
func (s *MemStore) RecordCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
