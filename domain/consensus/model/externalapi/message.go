package externalapi

// PayloadKind tags the wire-level payload type carried by a Message. The
// numeric values match the network's length-prefixed wire format (spec §6).
type PayloadKind uint32

const (
	// PayloadKindTransaction marks a message carrying a TransactionPayload.
	PayloadKindTransaction PayloadKind = 0

	// PayloadKindMilestone marks a message carrying a milestone payload.
	// Milestone production and signing are out of this core's scope (spec §1);
	// the payload is only ever consulted here to learn that it is *not* a
	// transaction.
	PayloadKindMilestone PayloadKind = 1

	// PayloadKindIndexation marks a message carrying an arbitrary indexation payload.
	PayloadKindIndexation PayloadKind = 2
)

// Payload is whatever a Message carries. This core only ever cares whether
// a payload is a TransactionPayload or something else (spec §4.4 step 2).
type Payload interface {
	PayloadKind() PayloadKind
}

// MilestonePayload is an opaque stand-in for a milestone payload; its
// contents are irrelevant to this core.
type MilestonePayload struct{}

// PayloadKind implements Payload.
func (p *MilestonePayload) PayloadKind() PayloadKind { return PayloadKindMilestone }

// IndexationPayload is an opaque stand-in for an indexation payload; its
// contents are irrelevant to this core.
type IndexationPayload struct {
	Index []byte
	Data  []byte
}

// PayloadKind implements Payload.
func (p *IndexationPayload) PayloadKind() PayloadKind { return PayloadKindIndexation }

// TransactionPayload is the only payload shape this core validates.
type TransactionPayload struct {
	id           TransactionId
	essence      Essence
	unlockBlocks []UnlockBlock
}

// NewTransactionPayload builds a TransactionPayload, computing its id from
// the essence's hash when the essence is Regular. Callers that already know
// the id (e.g. test fixtures replaying a fixed wire message) may override it
// with WithId.
func NewTransactionPayload(essence Essence, unlockBlocks []UnlockBlock) *TransactionPayload {
	tx := &TransactionPayload{essence: essence, unlockBlocks: unlockBlocks}
	if regular, ok := essence.(*RegularEssence); ok {
		tx.id = TransactionId(regular.Hash())
	}
	return tx
}

// WithId overrides the transaction id, for callers that derive it differently.
func (t *TransactionPayload) WithId(id TransactionId) *TransactionPayload {
	t.id = id
	return t
}

// PayloadKind implements Payload.
func (t *TransactionPayload) PayloadKind() PayloadKind { return PayloadKindTransaction }

// Id returns the transaction's id.
func (t *TransactionPayload) Id() TransactionId { return t.id }

// EssenceValue returns the transaction's essence.
func (t *TransactionPayload) EssenceValue() Essence { return t.essence }

// UnlockBlocks returns the transaction's unlock blocks, in declaration order.
func (t *TransactionPayload) UnlockBlocks() []UnlockBlock { return t.unlockBlocks }

// Message is a DAG vertex: a declared list of parents (tie-break order for
// traversal, spec §4.3) plus an optional payload.
type Message struct {
	Id      MessageId
	Parents []MessageId
	Payload Payload
}
