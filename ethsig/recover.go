package ethsig

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const (
	// SignatureSize is the expected signature length: 32-byte r, 32-byte s,
	// and a single recovery-id byte.
	SignatureSize = 65

	// recoveryOffset maps the legacy 0/1 recovery-id convention onto the
	// adjusted 27/28 convention.
	recoveryOffset = 27
)

// RecoverSigner recovers the address that signed digest from a 65-byte
// r||s||v signature. Both recovery-id conventions are accepted: 0/1 and
// 27/28.
func RecoverSigner(digest [DigestSize]byte, signature []byte) (Address, error) {
	if len(signature) != SignatureSize {
		return Address{}, fmt.Errorf("%w: must be %d bytes, got %d",
			ErrInvalidSignature, SignatureSize, len(signature))
	}

	v := signature[SignatureSize-1]
	if v < recoveryOffset {
		v += recoveryOffset
	}
	if v != 27 && v != 28 {
		return Address{}, fmt.Errorf("%w: recovery id %d out of range",
			ErrInvalidSignature, signature[SignatureSize-1])
	}

	// The SDK's compact layout puts the header byte first.
	compact := make([]byte, SignatureSize)
	compact[0] = v
	copy(compact[1:], signature[:SignatureSize-1])

	pub, _, err := ec.RecoverCompact(compact, digest[:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return AddressFromPublicKey(pub)
}

// Verify reports whether signature over (contentHash, timestamp) was
// produced by the claimed signer. It is pure and stateless; the registry
// never calls it on the caller's behalf.
func Verify(contentHash string, timestamp uint64, signature []byte, claimed Address) (bool, error) {
	digest := BuildDigest(contentHash, timestamp)
	signer, err := RecoverSigner(digest, signature)
	if err != nil {
		return false, err
	}
	return signer == claimed, nil
}
