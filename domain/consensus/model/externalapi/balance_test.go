package externalapi

import (
	"math"
	"testing"
)

func testAddress(b byte) Address {
	pub := [AddressSize]byte{}
	pub[0] = b
	return Address{kind: AddressKindEd25519, payload: pub}
}

func TestBalanceDiffIsDustMutating(t *testing.T) {
	diff := &BalanceDiff{}
	if diff.IsDustMutating() {
		t.Fatalf("fresh diff should not be dust mutating")
	}
	if err := diff.DustOutputsInc(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.IsDustMutating() {
		t.Fatalf("diff with a dust output delta should be dust mutating")
	}
}

func TestBalanceDiffOverflow(t *testing.T) {
	diff := &BalanceDiff{}
	if err := diff.AmountAdd(math.MaxInt64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := diff.AmountAdd(math.MaxInt64); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestBalanceDiffsMergeAndIterate(t *testing.T) {
	a := testAddress(1)
	b := testAddress(2)

	diffs := NewBalanceDiffs()
	if err := diffs.AmountAdd(a, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := diffs.AmountSub(b, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewBalanceDiffs()
	if err := other.AmountAdd(a, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := diffs.Merge(other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[Address]int64{}
	err := diffs.Iterate(func(address Address, diff *BalanceDiff) error {
		seen[address] = diff.Amount()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen[a] != 15 {
		t.Fatalf("address a amount = %d, want 15", seen[a])
	}
	if seen[b] != -10 {
		t.Fatalf("address b amount = %d, want -10", seen[b])
	}

	if sum := diffs.SumAmount(); sum != 5 {
		t.Fatalf("SumAmount = %d, want 5", sum)
	}
}

func TestBalanceDiffsIterateSkipsNoOp(t *testing.T) {
	a := testAddress(1)
	diffs := NewBalanceDiffs()
	diffs.entry(a) // touch the address without mutating any channel

	count := 0
	err := diffs.Iterate(func(address Address, diff *BalanceDiff) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no-op diff to be skipped, got %d callbacks", count)
	}
}

func TestBalanceApplyDiff(t *testing.T) {
	balance := Balance{Amount: 100, DustAllowance: 0, DustOutputs: 0}
	diff := &BalanceDiff{amount: -30, dustOutputs: 1}

	newBalance, err := balance.ApplyDiff(diff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newBalance.Amount != 70 {
		t.Fatalf("Amount = %d, want 70", newBalance.Amount)
	}
	if newBalance.DustOutputs != 1 {
		t.Fatalf("DustOutputs = %d, want 1", newBalance.DustOutputs)
	}
}

func TestBalanceApplyDiffGoesNegative(t *testing.T) {
	balance := Balance{Amount: 10}
	diff := &BalanceDiff{amount: -20}

	if _, err := balance.ApplyDiff(diff); err == nil {
		t.Fatalf("expected error when balance would go negative")
	}
}

func TestDustOutputsMax(t *testing.T) {
	if got := DustOutputsMax(0); got != 0 {
		t.Fatalf("DustOutputsMax(0) = %d, want 0", got)
	}
	if got := DustOutputsMax(100_000); got != 1 {
		t.Fatalf("DustOutputsMax(100_000) = %d, want 1", got)
	}
	if got := DustOutputsMax(250_000); got != 2 {
		t.Fatalf("DustOutputsMax(250_000) = %d, want 2", got)
	}
}
