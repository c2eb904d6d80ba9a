// Package dagtraversalmanager implements component C3 of the white-flag
// core: an iterative, deterministic post-order walk of the unreferenced
// ancestors of a set of tip messages, feeding each to the transaction
// validator and recording its classification (spec §4.3).
package dagtraversalmanager

import (
	wferrors "github.com/daglabs/whiteflag/domain/errors"

	"github.com/daglabs/whiteflag/domain/consensus/model"
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
)

// dagTraversalManager is the concrete C3 implementation.
type dagTraversalManager struct {
	tangle               model.Tangle
	transactionValidator model.TransactionValidator
}

// New instantiates a new DAGTraversalManager.
func New(tangle model.Tangle, transactionValidator model.TransactionValidator) model.DAGTraversalManager {
	return &dagTraversalManager{
		tangle:               tangle,
		transactionValidator: transactionValidator,
	}
}

// Traversal implements model.DAGTraversalManager.
//
// It walks an explicit stack instead of recursing: a natural recursive
// post-order formulation blows the call stack on deep DAGs (spec §9). The
// stack is seeded by the caller in the order it wants the deepest frame to
// be the first seed (component C4 seeds this reversed, so the natural LIFO
// order restores declaration order of processing).
func (m *dagTraversalManager) Traversal(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
	stack := make([]externalapi.MessageId, len(seeds))
	copy(stack, seeds)

	visited := make(map[externalapi.MessageId]struct{}, len(seeds))

	for len(stack) > 0 {
		id := stack[len(stack)-1]

		if _, ok := visited[id]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		vertex, found, err := m.tangle.GetVertex(id)
		if err != nil {
			return wferrors.Storage(err)
		}
		if !found {
			isSolidEntryPoint, err := m.tangle.IsSolidEntryPoint(id)
			if err != nil {
				return wferrors.Storage(err)
			}
			if !isSolidEntryPoint {
				return wferrors.MissingMessage(id)
			}
			visited[id] = struct{}{}
			stack = stack[:len(stack)-1]
			continue
		}

		message, vertexMetadata := vertex.MessageAndMetadata()
		if vertexMetadata.IsReferenced() {
			visited[id] = struct{}{}
			stack = stack[:len(stack)-1]
			continue
		}

		next, hasNext := firstUnvisitedParent(message.Parents, visited)
		if hasNext {
			stack = append(stack, next)
			continue
		}

		if err := m.applyMessage(id, message, metadata); err != nil {
			return err
		}
		visited[id] = struct{}{}
		stack = stack[:len(stack)-1]
	}

	return nil
}

func firstUnvisitedParent(parents []externalapi.MessageId, visited map[externalapi.MessageId]struct{}) (externalapi.MessageId, bool) {
	for _, parent := range parents {
		if _, ok := visited[parent]; !ok {
			return parent, true
		}
	}
	return externalapi.MessageId{}, false
}

// applyMessage is the per-vertex application step: it counts the vertex as
// referenced, then classifies it as included, conflicting, or carrying no
// transaction at all (spec §4.4 step 2).
func (m *dagTraversalManager) applyMessage(id externalapi.MessageId, message *externalapi.Message, metadata *externalapi.WhiteFlagMetadata) error {
	metadata.ReferencedMessages++

	transaction, ok := message.Payload.(*externalapi.TransactionPayload)
	if !ok {
		metadata.ExcludedNoTransactionMessages = append(metadata.ExcludedNoTransactionMessages, id)
		return nil
	}

	conflict, err := m.transactionValidator.ApplyTransaction(id, transaction, metadata)
	if err != nil {
		return err
	}

	if conflict == externalapi.ConflictNone {
		metadata.IncludedMessages = append(metadata.IncludedMessages, id)
	} else {
		metadata.ExcludedConflictingMessages = append(metadata.ExcludedConflictingMessages,
			externalapi.ExcludedConflictingMessage{MessageId: id, ConflictReason: conflict})
	}

	return nil
}
