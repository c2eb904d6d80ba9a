package externalapi

// ExcludedConflictingMessage pairs a message with the reason its transaction
// conflicted.
type ExcludedConflictingMessage struct {
	MessageId      MessageId
	ConflictReason ConflictReason
}

// WhiteFlagMetadata is the single accumulator a confirmation pass mutates in
// place (spec §3). It is created fresh per milestone, exclusively owned by
// the driver for the duration of the pass, and discarded on any error — no
// partial state is ever committed.
type WhiteFlagMetadata struct {
	Index                         MilestoneIndex
	ReferencedMessages            uint64
	IncludedMessages              []MessageId
	ExcludedConflictingMessages   []ExcludedConflictingMessage
	ExcludedNoTransactionMessages []MessageId
	ConsumedOutputs               map[OutputId]ConsumedOutputRecord
	CreatedOutputs                map[OutputId]CreatedOutput
	BalanceDiffs                  *BalanceDiffs
	MerkleProof                   [32]byte
}

// NewWhiteFlagMetadata creates a fresh, empty accumulator for the milestone at index.
func NewWhiteFlagMetadata(index MilestoneIndex) *WhiteFlagMetadata {
	return &WhiteFlagMetadata{
		Index:           index,
		ConsumedOutputs: make(map[OutputId]ConsumedOutputRecord),
		CreatedOutputs:  make(map[OutputId]CreatedOutput),
		BalanceDiffs:    NewBalanceDiffs(),
	}
}
