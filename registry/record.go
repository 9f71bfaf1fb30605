package registry

// Record is one stored image-metadata entry. Records are immutable once
// stored; there is no update operation.
type Record struct {
	ID          uint64 // Assigned as count+1, never reused
	URL         string // Opaque locator for the image bytes
	ContentHash string // Unique across currently live records
	Timestamp   uint64 // Caller-supplied, not clock-verified
	Signature   []byte // 65-byte r||s||v when used with ethsig
	Owner       string // Authenticated caller identity, set once at creation
}

// IsZero reports whether the record reads back as a cleared storage slot.
func (r *Record) IsZero() bool {
	return r.URL == "" && r.ContentHash == "" && r.Timestamp == 0 &&
		len(r.Signature) == 0 && r.Owner == ""
}

// StoredEvent is emitted after a record is committed. Field set and order
// are fixed for external monitors.
type StoredEvent struct {
	ID          uint64
	Owner       string
	ContentHash string
	Timestamp   uint64
}

// DeletedEvent is emitted after a record is deleted.
type DeletedEvent struct {
	ID    uint64
	Owner string
}
