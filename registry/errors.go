package registry

import "errors"

var (
	// ErrInvalidInput indicates a required field is empty or zero.
	ErrInvalidInput = errors.New("registry: invalid input")

	// ErrDuplicateContent indicates the content hash already belongs to a live record.
	ErrDuplicateContent = errors.New("registry: content hash already registered")

	// ErrNotFound indicates the record id is outside the assigned range.
	ErrNotFound = errors.New("registry: record not found")

	// ErrNotOwner indicates the caller is not the record's owner.
	ErrNotOwner = errors.New("registry: caller is not the record owner")

	// ErrUnknownBackend indicates the storage backend name is not recognized.
	ErrUnknownBackend = errors.New("registry: unknown storage backend")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("registry: required parameter is nil")
)
