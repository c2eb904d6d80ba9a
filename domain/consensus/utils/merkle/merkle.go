// Package merkle computes the white-flag Merkle commitment over an ordered
// list of included messages (spec §4.5). The construction is part of the
// consensus protocol and must byte-match every other implementation, so
// nothing here is a stylistic choice: domain separation bytes, the empty
// hash, and the split point are all load-bearing.
package merkle

import (
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/utils/hashes"
)

const (
	domainSeparationLeaf byte = 0x00
	domainSeparationNode byte = 0x01
)

// Hash computes the domain-separated binary Merkle root over messageIDs, in
// the order given. Order is load-bearing: it comes solely from the DAG
// traversal, never from an internal sort (spec §4.4/§8 P3).
func Hash(messageIDs []externalapi.MessageId) [32]byte {
	if len(messageIDs) == 0 {
		return hashes.Sum256(nil)
	}
	return hashSlice(messageIDs)
}

func hashSlice(messageIDs []externalapi.MessageId) [32]byte {
	if len(messageIDs) == 1 {
		return leafHash(messageIDs[0])
	}

	split := largestPowerOfTwoLessThan(len(messageIDs))
	left := hashSlice(messageIDs[:split])
	right := hashSlice(messageIDs[split:])
	return nodeHash(left, right)
}

func leafHash(id externalapi.MessageId) [32]byte {
	w := hashes.NewHashWriter()
	w.Write([]byte{domainSeparationLeaf})
	w.Write(id[:])
	return w.Finalize()
}

func nodeHash(left, right [32]byte) [32]byte {
	w := hashes.NewHashWriter()
	w.Write([]byte{domainSeparationNode})
	w.Write(left[:])
	w.Write(right[:])
	return w.Finalize()
}

// largestPowerOfTwoLessThan returns the largest power of two strictly less
// than n, for n >= 2 (spec §4.5's split point).
func largestPowerOfTwoLessThan(n int) int {
	p := 1
	for p*2 < n {
		p *= 2
	}
	return p
}
