// Package hashes provides the Blake2b-256 writer shared by essence hashing
// and the white-flag Merkle tree, so both speak the same domain-separated
// hash primitive instead of each rolling its own.
package hashes

import (
	"hash"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// HashWriter incrementally hashes with Blake2b-256 and yields a fixed-size digest.
type HashWriter struct {
	h hash.Hash
}

// NewHashWriter returns an empty HashWriter.
func NewHashWriter() *HashWriter {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an oversized key, and we pass none.
		panic(errors.Wrap(err, "blake2b.New256 with no key should never fail"))
	}
	return &HashWriter{h: h}
}

// Write implements io.Writer. It never fails.
func (w *HashWriter) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Finalize returns the Blake2b-256 digest of everything written so far.
func (w *HashWriter) Finalize() [32]byte {
	var digest [32]byte
	copy(digest[:], w.h.Sum(nil))
	return digest
}

// Sum256 is a one-shot convenience wrapper around blake2b.Sum256, used
// where a writer would be overkill (the Merkle leaf/node/empty hashes).
func Sum256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}
