package ethsig

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the length of the signed digest in bytes.
const DigestSize = 32

// messagePreamble is the domain-separation prefix hashed over the inner
// digest. It makes the signed payload distinguishable from a transaction
// hash so signatures cannot be replayed across contexts.
const messagePreamble = "\x19Ethereum Signed Message:\n32"

// timestampWordSize is the serialized width of the timestamp in the packed
// message, a 256-bit big-endian unsigned word.
const timestampWordSize = 32

// Keccak256 computes the legacy Keccak-256 hash over the concatenation of
// the given byte slices.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// BuildDigest builds the canonical signed-message digest for a content hash
// and timestamp: Keccak-256 over the packed pair, then Keccak-256 again with
// the signed-message preamble.
func BuildDigest(contentHash string, timestamp uint64) [DigestSize]byte {
	var ts [timestampWordSize]byte
	binary.BigEndian.PutUint64(ts[timestampWordSize-8:], timestamp)

	inner := Keccak256([]byte(contentHash), ts[:])
	outer := Keccak256([]byte(messagePreamble), inner)

	var digest [DigestSize]byte
	copy(digest[:], outer)
	return digest
}
