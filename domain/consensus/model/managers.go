package model

import "github.com/daglabs/whiteflag/domain/consensus/model/externalapi"

// TransactionValidator is component C2: it validates a single transaction's
// inputs, signatures, outputs, sums and dust invariant against storage plus
// the in-progress metadata overlay, classifying the result as None or a
// specific ConflictReason (spec §4.2).
type TransactionValidator interface {
	ApplyTransaction(
		messageID externalapi.MessageId,
		transaction *externalapi.TransactionPayload,
		metadata *externalapi.WhiteFlagMetadata,
	) (externalapi.ConflictReason, error)
}

// DAGTraversalManager is component C3: it walks the unreferenced ancestors
// of a set of seed messages in deterministic post-order, applying each to
// the metadata accumulator (spec §4.3).
type DAGTraversalManager interface {
	Traversal(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error
}

// ConfirmationManager is component C4: it orchestrates a full white-flag
// pass over a set of tip messages (spec §4.4).
type ConfirmationManager interface {
	WhiteFlag(tips []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error
}
