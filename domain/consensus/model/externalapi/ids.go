package externalapi

import (
	"encoding/hex"
	"strconv"
)

// MessageIdSize is the length in bytes of a MessageId.
const MessageIdSize = 32

// MessageId is the opaque identifier of a DAG vertex.
type MessageId [MessageIdSize]byte

// String returns the hexadecimal representation of the id.
func (id MessageId) String() string {
	return hex.EncodeToString(id[:])
}

// Equal returns whether id equals other.
func (id MessageId) Equal(other MessageId) bool {
	return id == other
}

// TransactionIdSize is the length in bytes of a TransactionId.
const TransactionIdSize = 32

// TransactionId is derived from a transaction's essence hash.
type TransactionId [TransactionIdSize]byte

// String returns the hexadecimal representation of the id.
func (id TransactionId) String() string {
	return hex.EncodeToString(id[:])
}

// OutputId is a pair (TransactionId, output index). The index is bounded by
// the number of outputs of the owning transaction's essence.
type OutputId struct {
	TransactionId TransactionId
	Index         uint16
}

// String returns a human-readable "txid:index" representation. The index is
// decimal, matching cmd/whiteflagconfirm/snapshot.go's parseOutputId.
func (id OutputId) String() string {
	return id.TransactionId.String() + ":" + strconv.FormatUint(uint64(id.Index), 10)
}

// MilestoneIndex identifies the milestone being confirmed.
type MilestoneIndex uint32
