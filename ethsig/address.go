package ethsig

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// AddressSize is the length of a signer identity in bytes.
const AddressSize = 20

// Address is the identity derived from a secp256k1 public key: the last 20
// bytes of the Keccak-256 hash of the uncompressed curve point.
type Address [AddressSize]byte

// Hex returns the 0x-prefixed lowercase hex encoding of the address.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool { return a == Address{} }

// AddressFromHex parses a hex-encoded address with or without a 0x prefix.
func AddressFromHex(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromPublicKey derives the canonical address for a public key.
// The 0x04 prefix of the uncompressed encoding is not hashed.
func AddressFromPublicKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Address{}, fmt.Errorf("%w: public key", ErrNilParam)
	}
	sum := Keccak256(pub.Uncompressed()[1:])
	var a Address
	copy(a[:], sum[len(sum)-AddressSize:])
	return a, nil
}
