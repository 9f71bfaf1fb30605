package registry

import (
	"fmt"
	"sync"
)

// Registry owns the record store and enforces the creation and deletion
// invariants. All mutation funnels through StoreImage and DeleteImage; reads
// go straight to the store and never block behind writers.
//
// The caller identity passed to mutating operations is an opaque token the
// host has already authenticated. The registry never derives it and never
// verifies signatures on its own; ethsig.Verify is a separate capability.
type Registry struct {
	mu        sync.Mutex // serializes mutation and notification in commit order
	store     Store
	notifiers []Notifier
}

// New creates a Registry backed by store. Notifiers observe every committed
// mutation.
func New(store Store, notifiers ...Notifier) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	return &Registry{store: store, notifiers: notifiers}, nil
}

// StoreImage registers image metadata for the calling owner and returns the
// new record id. The content hash must not belong to a live record; a hash
// freed by deletion may be registered again. The signature bytes are stored
// as supplied.
func (r *Registry) StoreImage(owner, url, contentHash string, timestamp uint64, signature []byte) (uint64, error) {
	if owner == "" {
		return 0, fmt.Errorf("%w: owner identity is empty", ErrInvalidInput)
	}
	if url == "" {
		return 0, fmt.Errorf("%w: url is empty", ErrInvalidInput)
	}
	if contentHash == "" {
		return 0, fmt.Errorf("%w: content hash is empty", ErrInvalidInput)
	}
	if timestamp == 0 {
		return 0, fmt.Errorf("%w: timestamp must be positive", ErrInvalidInput)
	}
	if len(signature) == 0 {
		return 0, fmt.Errorf("%w: signature is empty", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.store.CreateRecord(&Record{
		URL:         url,
		ContentHash: contentHash,
		Timestamp:   timestamp,
		Signature:   signature,
		Owner:       owner,
	})
	if err != nil {
		return 0, err
	}

	evt := StoredEvent{ID: id, Owner: owner, ContentHash: contentHash, Timestamp: timestamp}
	for _, n := range r.notifiers {
		n.RecordStored(evt)
	}
	return id, nil
}

// GetImage retrieves a record by id. An id inside the assigned range whose
// record was deleted yields a zero-value record; ErrNotFound is reserved for
// ids outside [1, count].
func (r *Registry) GetImage(id uint64) (*Record, error) {
	return r.store.GetRecord(id)
}

// DeleteImage deletes the record with the given id. Only the record's owner
// may delete it. The record's content hash becomes available again; the id
// is never reassigned.
func (r *Registry) DeleteImage(owner string, id uint64) error {
	if owner == "" {
		return fmt.Errorf("%w: owner identity is empty", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.DeleteRecord(id, owner); err != nil {
		return err
	}

	evt := DeletedEvent{ID: id, Owner: owner}
	for _, n := range r.notifiers {
		n.RecordDeleted(evt)
	}
	return nil
}

// UserImages returns the ids of every record the owner has ever stored,
// including ids of records that have since been deleted. Unknown owners
// yield an empty sequence.
func (r *Registry) UserImages(owner string) ([]uint64, error) {
	return r.store.OwnerRecords(owner)
}

// Count returns the number of record ids ever assigned.
func (r *Registry) Count() (uint64, error) {
	return r.store.RecordCount()
}
