package externalapi

// UnlockKind tags the shape of an UnlockBlock.
type UnlockKind byte

const (
	// UnlockKindSignature is the only shape this core can consume at a given input index.
	UnlockKindSignature UnlockKind = 0

	// UnlockKindReference points at an earlier unlock block instead of carrying its own signature.
	UnlockKindReference UnlockKind = 1
)

// UnlockBlock is a tagged variant. Only Signature is consumable by this
// core; any other shape at a given input position is treated as a missing
// signature (ConflictReason InvalidSignature), not a fatal error (spec §4.2).
type UnlockBlock interface {
	Kind() UnlockKind
}

// SignatureUnlockBlock carries the signature that unlocks an input.
type SignatureUnlockBlock struct {
	Signature []byte
}

// Kind implements UnlockBlock.
func (u *SignatureUnlockBlock) Kind() UnlockKind { return UnlockKindSignature }

// ReferenceUnlockBlock reuses an earlier unlock block's signature. This core
// never resolves the reference; it is simply not a Signature at this
// position, so it always yields InvalidSignature when consulted directly.
type ReferenceUnlockBlock struct {
	Reference uint16
}

// Kind implements UnlockBlock.
func (u *ReferenceUnlockBlock) Kind() UnlockKind { return UnlockKindReference }

// UnlockBlockAt returns the unlock block at the given input index, or nil if
// the transaction carries fewer unlock blocks than inputs.
func UnlockBlockAt(unlockBlocks []UnlockBlock, index int) UnlockBlock {
	if index < 0 || index >= len(unlockBlocks) {
		return nil
	}
	return unlockBlocks[index]
}
