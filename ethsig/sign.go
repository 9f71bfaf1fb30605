package ethsig

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// Sign produces the 65-byte r||s||v signature over (contentHash, timestamp)
// that RecoverSigner and Verify accept. The recovery id uses the adjusted
// 27/28 convention.
func Sign(priv *ec.PrivateKey, contentHash string, timestamp uint64) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}

	digest := BuildDigest(contentHash, timestamp)
	compact, err := ec.SignCompact(ec.S256(), priv, digest[:], false)
	if err != nil {
		return nil, fmt.Errorf("ethsig: sign: %w", err)
	}

	// Rearrange the SDK's header-first layout into r||s||v.
	sig := make([]byte, SignatureSize)
	copy(sig, compact[1:])
	sig[SignatureSize-1] = compact[0]
	return sig, nil
}
