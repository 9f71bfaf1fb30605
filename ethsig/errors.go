package ethsig

import "errors"

var (
	// ErrInvalidSignature indicates the signature has the wrong length or an
	// unrecoverable recovery id.
	ErrInvalidSignature = errors.New("ethsig: invalid signature")

	// ErrInvalidAddress indicates the address string is malformed.
	ErrInvalidAddress = errors.New("ethsig: invalid address")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ethsig: required parameter is nil")
)
