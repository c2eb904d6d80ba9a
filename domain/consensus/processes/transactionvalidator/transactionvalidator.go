// Package transactionvalidator implements component C2 of the white-flag
// core: validating a single transaction's inputs, signatures, outputs, sums
// and dust invariant against storage plus the in-progress milestone overlay
// (spec §4.2).
package transactionvalidator

import (
	wferrors "github.com/daglabs/whiteflag/domain/errors"

	"github.com/daglabs/whiteflag/domain/consensus/model"
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
)

// transactionValidator is the concrete, storage-backed C2 implementation.
type transactionValidator struct {
	storage model.Storage
}

// New instantiates a new TransactionValidator.
func New(storage model.Storage) model.TransactionValidator {
	return &transactionValidator{storage: storage}
}

// ApplyTransaction implements model.TransactionValidator.
func (v *transactionValidator) ApplyTransaction(
	messageID externalapi.MessageId,
	transaction *externalapi.TransactionPayload,
	metadata *externalapi.WhiteFlagMetadata,
) (externalapi.ConflictReason, error) {
	essence, ok := transaction.EssenceValue().(*externalapi.RegularEssence)
	if !ok {
		return externalapi.ConflictNone, wferrors.UnsupportedTransactionEssenceKind(byte(transaction.EssenceValue().Kind()))
	}

	return v.applyRegularEssence(messageID, transaction.Id(), essence, transaction.UnlockBlocks(), metadata)
}

type resolvedInput struct {
	outputID externalapi.OutputId
	output   externalapi.Output
}

func (v *transactionValidator) applyRegularEssence(
	messageID externalapi.MessageId,
	transactionID externalapi.TransactionId,
	essence *externalapi.RegularEssence,
	unlockBlocks []externalapi.UnlockBlock,
	metadata *externalapi.WhiteFlagMetadata,
) (externalapi.ConflictReason, error) {
	resolved := make([]resolvedInput, 0, len(essence.Inputs))
	localDiffs := externalapi.NewBalanceDiffs()

	var consumedAmount, createdAmount uint64

	essenceHash := essence.Hash()

	// Input phase: declaration order, per spec §4.2 step 2.
	for index, input := range essence.Inputs {
		utxoInput, ok := input.(*externalapi.UtxoInput)
		if !ok {
			return externalapi.ConflictNone, wferrors.UnsupportedInputKind(byte(input.Kind()))
		}
		outputID := utxoInput.OutputId

		if _, alreadyConsumed := metadata.ConsumedOutputs[outputID]; alreadyConsumed {
			return externalapi.ConflictInputUtxoAlreadySpentInThisMilestone, nil
		}

		output, conflict, err := v.resolveInputOutput(outputID, metadata)
		if err != nil {
			return externalapi.ConflictNone, err
		}
		if conflict != externalapi.ConflictNone {
			return conflict, nil
		}

		newConsumedAmount, ok := addUint64Checked(consumedAmount, output.GetAmount())
		if !ok {
			return externalapi.ConflictNone, wferrors.ConsumedAmountOverflow(consumedAmount, output.GetAmount())
		}
		consumedAmount = newConsumedAmount

		if err := debitForOutput(localDiffs, output); err != nil {
			return externalapi.ConflictNone, err
		}

		if !verifySignature(output.GetAddress(), unlockBlocks, index, essenceHash) {
			return externalapi.ConflictInvalidSignature, nil
		}

		resolved = append(resolved, resolvedInput{outputID: outputID, output: output})
	}

	// Output phase: declaration order, per spec §4.2 step 3.
	for _, output := range essence.Outputs {
		switch output.(type) {
		case *externalapi.SignatureLockedSingleOutput, *externalapi.SignatureLockedDustAllowanceOutput:
			// recognized shapes, handled below
		default:
			return externalapi.ConflictNone, wferrors.UnsupportedOutputKind(byte(output.Kind()))
		}

		newCreatedAmount, ok := addUint64Checked(createdAmount, output.GetAmount())
		if !ok {
			return externalapi.ConflictNone, wferrors.CreatedAmountOverflow(createdAmount, output.GetAmount())
		}
		createdAmount = newCreatedAmount

		if err := creditForOutput(localDiffs, output); err != nil {
			return externalapi.ConflictNone, err
		}
	}

	// Sum check, per spec §4.2 step 4.
	if createdAmount != consumedAmount {
		return externalapi.ConflictInputOutputSumMismatch, nil
	}

	// Dust check, per spec §4.2 step 5.
	conflict, err := v.checkDustInvariant(localDiffs, metadata)
	if err != nil {
		return externalapi.ConflictNone, err
	}
	if conflict != externalapi.ConflictNone {
		return conflict, nil
	}

	// Commit, per spec §4.2 step 6.
	for _, input := range resolved {
		metadata.ConsumedOutputs[input.outputID] = externalapi.ConsumedOutputRecord{
			Output:         input.output,
			ConsumedOutput: externalapi.NewConsumedOutput(transactionID, metadata.Index),
		}
	}
	for index, output := range essence.Outputs {
		if index > 0xffff {
			return externalapi.ConflictNone, wferrors.OutputIDCreation(index)
		}
		outputID := externalapi.OutputId{TransactionId: transactionID, Index: uint16(index)}
		metadata.CreatedOutputs[outputID] = externalapi.NewCreatedOutput(messageID, output)
	}
	if err := metadata.BalanceDiffs.Merge(localDiffs); err != nil {
		return externalapi.ConflictNone, err
	}

	return externalapi.ConflictNone, nil
}

// resolveInputOutput resolves an input's output by checking, in order: the
// same-milestone creation overlay, then storage (spec §4.2 step 2).
func (v *transactionValidator) resolveInputOutput(
	outputID externalapi.OutputId,
	metadata *externalapi.WhiteFlagMetadata,
) (externalapi.Output, externalapi.ConflictReason, error) {
	if created, ok := metadata.CreatedOutputs[outputID]; ok {
		return created.Output, externalapi.ConflictNone, nil
	}

	output, found, err := v.storage.FetchOutput(outputID)
	if err != nil {
		return nil, externalapi.ConflictNone, wferrors.Storage(err)
	}
	if !found {
		return nil, externalapi.ConflictInputUtxoNotFound, nil
	}

	unspent, err := v.storage.IsOutputUnspent(outputID)
	if err != nil {
		return nil, externalapi.ConflictNone, wferrors.Storage(err)
	}
	if !unspent {
		return nil, externalapi.ConflictInputUtxoAlreadySpent, nil
	}

	return output, externalapi.ConflictNone, nil
}

// checkDustInvariant implements spec §4.2 step 5: for every address whose
// transaction-local diff mutates dust state, fold the persisted balance with
// the local diff and then with the metadata-global diff (if any), and check
// the policy cap.
func (v *transactionValidator) checkDustInvariant(
	localDiffs *externalapi.BalanceDiffs,
	metadata *externalapi.WhiteFlagMetadata,
) (externalapi.ConflictReason, error) {
	var conflict externalapi.ConflictReason

	err := localDiffs.Iterate(func(address externalapi.Address, diff *externalapi.BalanceDiff) error {
		if conflict != externalapi.ConflictNone || !diff.IsDustMutating() {
			return nil
		}

		persisted, err := v.storage.FetchBalanceOrDefault(address)
		if err != nil {
			return wferrors.Storage(err)
		}

		balance, err := persisted.ApplyDiff(diff)
		if err != nil {
			return err
		}

		if globalDiff, ok := metadata.BalanceDiffs.Get(address); ok {
			balance, err = balance.ApplyDiff(globalDiff)
			if err != nil {
				return err
			}
		}

		if int64(balance.DustOutputs) > externalapi.DustOutputsMax(balance.DustAllowance) {
			conflict = externalapi.ConflictInvalidDustAllowance
		}
		return nil
	})
	if err != nil {
		return externalapi.ConflictNone, err
	}
	return conflict, nil
}

func debitForOutput(diffs *externalapi.BalanceDiffs, output externalapi.Output) error {
	address := output.GetAddress()
	if err := diffs.AmountSub(address, output.GetAmount()); err != nil {
		return err
	}
	switch output.(type) {
	case *externalapi.SignatureLockedSingleOutput:
		if output.GetAmount() < externalapi.DustThreshold {
			return diffs.DustOutputsDec(address)
		}
	case *externalapi.SignatureLockedDustAllowanceOutput:
		return diffs.DustAllowanceSub(address, output.GetAmount())
	}
	return nil
}

func creditForOutput(diffs *externalapi.BalanceDiffs, output externalapi.Output) error {
	address := output.GetAddress()
	if err := diffs.AmountAdd(address, output.GetAmount()); err != nil {
		return err
	}
	switch output.(type) {
	case *externalapi.SignatureLockedSingleOutput:
		if output.GetAmount() < externalapi.DustThreshold {
			return diffs.DustOutputsInc(address)
		}
	case *externalapi.SignatureLockedDustAllowanceOutput:
		return diffs.DustAllowanceAdd(address, output.GetAmount())
	}
	return nil
}

// verifySignature reports whether the unlock block at index is a Signature
// that validly unlocks address over essenceHash. Any other unlock shape, or
// a missing one, is treated as a missing signature (spec §4.2).
func verifySignature(
	address externalapi.Address,
	unlockBlocks []externalapi.UnlockBlock,
	index int,
	essenceHash [32]byte,
) bool {
	unlockBlock := externalapi.UnlockBlockAt(unlockBlocks, index)
	signatureBlock, ok := unlockBlock.(*externalapi.SignatureUnlockBlock)
	if !ok {
		return false
	}
	return address.Verify(essenceHash[:], signatureBlock.Signature)
}

func addUint64Checked(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
