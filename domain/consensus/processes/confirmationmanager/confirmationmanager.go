// Package confirmationmanager implements component C4, the white-flag
// confirmation driver: it seeds the traversal, invokes the Merkle hasher
// over the included set, verifies the global conservation and count
// invariants, and returns the populated metadata (spec §4.4).
package confirmationmanager

import (
	wferrors "github.com/daglabs/whiteflag/domain/errors"

	"github.com/daglabs/whiteflag/domain/consensus/model"
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/utils/merkle"
)

// confirmationManager is the concrete C4 implementation.
type confirmationManager struct {
	dagTraversalManager model.DAGTraversalManager
}

// New instantiates a new ConfirmationManager.
func New(dagTraversalManager model.DAGTraversalManager) model.ConfirmationManager {
	return &confirmationManager{dagTraversalManager: dagTraversalManager}
}

// WhiteFlag implements model.ConfirmationManager. On success metadata holds
// the full confirmation result and is ready for the caller to persist. On
// error metadata must be discarded: no partial state is ever committed
// (spec §3 Lifecycle).
func (m *confirmationManager) WhiteFlag(tips []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
	reversedTips := reverse(tips)

	if err := m.dagTraversalManager.Traversal(reversedTips, metadata); err != nil {
		return err
	}

	metadata.MerkleProof = merkle.Hash(metadata.IncludedMessages)

	total := len(metadata.IncludedMessages) + len(metadata.ExcludedConflictingMessages) + len(metadata.ExcludedNoTransactionMessages)
	if int(metadata.ReferencedMessages) != total {
		return wferrors.InvalidMessagesCount(
			int(metadata.ReferencedMessages),
			len(metadata.ExcludedNoTransactionMessages),
			len(metadata.ExcludedConflictingMessages),
			len(metadata.IncludedMessages),
		)
	}

	if sum := metadata.BalanceDiffs.SumAmount(); sum != 0 {
		return wferrors.NonZeroBalanceDiffSum(sum)
	}

	return nil
}

func reverse(tips []externalapi.MessageId) []externalapi.MessageId {
	reversed := make([]externalapi.MessageId, len(tips))
	for i, tip := range tips {
		reversed[len(tips)-1-i] = tip
	}
	return reversed
}
