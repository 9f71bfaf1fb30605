package registry

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketRecords = []byte("records")
	bucketOwners  = []byte("owners")
	bucketHashes  = []byte("hashes")
	bucketMeta    = []byte("meta")

	keyCount = []byte("count")
)

// BoltStore persists registry state in bbolt. Each mutating call runs in a
// single write transaction, so precondition failures leave no partial state.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("registry: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRecords, bucketOwners, bucketHashes, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// idKey encodes a record id as an 8-byte big-endian key for sorted storage.
func idKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// readCount reads the id counter inside a transaction.
func readCount(tx *bbolt.Tx) uint64 {
	v := tx.Bucket(bucketMeta).Get(keyCount)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

// CreateRecord assigns the next id and stores the record.
func (s *BoltStore) CreateRecord(rec *Record) (uint64, error) {
	if rec == nil {
		return 0, fmt.Errorf("%w: record", ErrNilParam)
	}

	var id uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketHashes).Get([]byte(rec.ContentHash)) != nil {
			return fmt.Errorf("%w: %q", ErrDuplicateContent, rec.ContentHash)
		}

		id = readCount(tx) + 1
		stored := *rec
		stored.ID = id

		data, err := encodeGob(&stored)
		if err != nil {
			return fmt.Errorf("boltstore: encode record: %w", err)
		}
		if err := tx.Bucket(bucketRecords).Put(idKey(id), data); err != nil {
			return fmt.Errorf("boltstore: put record: %w", err)
		}

		ob, err := tx.Bucket(bucketOwners).CreateBucketIfNotExists([]byte(rec.Owner))
		if err != nil {
			return fmt.Errorf("boltstore: create owner bucket: %w", err)
		}
		if err := ob.Put(idKey(id), []byte{}); err != nil {
			return fmt.Errorf("boltstore: put owner index entry: %w", err)
		}

		if err := tx.Bucket(bucketHashes).Put([]byte(rec.ContentHash), []byte{1}); err != nil {
			return fmt.Errorf("boltstore: put hash flag: %w", err)
		}
		if err := tx.Bucket(bucketMeta).Put(keyCount, idKey(id)); err != nil {
			return fmt.Errorf("boltstore: put counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetRecord retrieves a record by id.
func (s *BoltStore) GetRecord(id uint64) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		count := readCount(tx)
		if id < 1 || id > count {
			return fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, count)
		}

		data := tx.Bucket(bucketRecords).Get(idKey(id))
		if data == nil {
			// Cleared slot: in range but deleted reads back as defaults.
			rec = Record{ID: id}
			return nil
		}
		if err := decodeGob(data, &rec); err != nil {
			return fmt.Errorf("boltstore: decode record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteRecord clears the record slot and frees its content hash.
func (s *BoltStore) DeleteRecord(id uint64, owner string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		count := readCount(tx)
		if id < 1 || id > count {
			return fmt.Errorf("%w: id %d outside [1, %d]", ErrNotFound, id, count)
		}

		records := tx.Bucket(bucketRecords)
		data := records.Get(idKey(id))
		if data == nil {
			// A cleared slot has no owner, so it can never match the caller.
			return ErrNotOwner
		}

		var rec Record
		if err := decodeGob(data, &rec); err != nil {
			return fmt.Errorf("boltstore: decode record: %w", err)
		}
		if rec.Owner != owner {
			return ErrNotOwner
		}

		if err := records.Delete(idKey(id)); err != nil {
			return fmt.Errorf("boltstore: delete record: %w", err)
		}
		if err := tx.Bucket(bucketHashes).Delete([]byte(rec.ContentHash)); err != nil {
			return fmt.Errorf("boltstore: delete hash flag: %w", err)
		}
		// The owner's log entry stays: the index is append-only.
		return nil
	})
}

// OwnerRecords returns the owner's append-only id log.
func (s *BoltStore) OwnerRecords(owner string) ([]uint64, error) {
	var ids []uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		ob := tx.Bucket(bucketOwners).Bucket([]byte(owner))
		if ob == nil {
			return nil
		}
		return ob.ForEach(func(k, _ []byte) error {
			ids = append(ids, binary.BigEndian.Uint64(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: owner records: %w", err)
	}
	return ids, nil
}

// RecordCount returns the number of ids ever assigned.
func (s *BoltStore) RecordCount() (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = readCount(tx)
		return nil
	})
	return count, err
}
