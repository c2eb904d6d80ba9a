package externalapi

import (
	"math/big"

	"github.com/pkg/errors"
)

// BalanceDiff is the per-address signed delta accumulated while applying a
// single transaction or a whole milestone (spec §3, component C1). Amount
// and dust-allowance overflow are errors; DustOutputs tracks the net number
// of dust outputs created minus consumed.
type BalanceDiff struct {
	amount        int64
	dustAllowance int64
	dustOutputs   int64
}

// Amount returns the accumulated signed amount delta.
func (d *BalanceDiff) Amount() int64 { return d.amount }

// DustAllowance returns the accumulated signed dust-allowance delta.
func (d *BalanceDiff) DustAllowance() int64 { return d.dustAllowance }

// DustOutputs returns the net dust outputs created minus consumed.
func (d *BalanceDiff) DustOutputs() int64 { return d.dustOutputs }

// IsDustMutating reports whether this diff changes either the dust output
// count or the dust allowance for its address (spec §3).
func (d *BalanceDiff) IsDustMutating() bool {
	return d.dustOutputs != 0 || d.dustAllowance != 0
}

// addChecked64 performs the addition at 128-bit width via math/big, and
// fails if the result doesn't fit back into an int64 (spec §4.1: "checked
// arithmetic on signed 128-bit-wide intermediates").
func addChecked64(a, b int64) (int64, bool) {
	sum := new(big.Int).Add(big.NewInt(a), big.NewInt(b))
	if !sum.IsInt64() {
		return 0, false
	}
	return sum.Int64(), true
}

// AmountAdd credits amount to the diff.
func (d *BalanceDiff) AmountAdd(amount uint64) error {
	sum, ok := addChecked64(d.amount, int64(amount))
	if !ok {
		return errors.Errorf("amount add overflow: %d + %d", d.amount, amount)
	}
	d.amount = sum
	return nil
}

// AmountSub debits amount from the diff.
func (d *BalanceDiff) AmountSub(amount uint64) error {
	sum, ok := addChecked64(d.amount, -int64(amount))
	if !ok {
		return errors.Errorf("amount sub overflow: %d - %d", d.amount, amount)
	}
	d.amount = sum
	return nil
}

// DustAllowanceAdd credits dust allowance to the diff.
func (d *BalanceDiff) DustAllowanceAdd(amount uint64) error {
	sum, ok := addChecked64(d.dustAllowance, int64(amount))
	if !ok {
		return errors.Errorf("dust allowance add overflow: %d + %d", d.dustAllowance, amount)
	}
	d.dustAllowance = sum
	return nil
}

// DustAllowanceSub debits dust allowance from the diff.
func (d *BalanceDiff) DustAllowanceSub(amount uint64) error {
	sum, ok := addChecked64(d.dustAllowance, -int64(amount))
	if !ok {
		return errors.Errorf("dust allowance sub overflow: %d - %d", d.dustAllowance, amount)
	}
	d.dustAllowance = sum
	return nil
}

// DustOutputsInc records one more dust output created for this address.
func (d *BalanceDiff) DustOutputsInc() error {
	sum, ok := addChecked64(d.dustOutputs, 1)
	if !ok {
		return errors.Errorf("dust outputs overflow: %d + 1", d.dustOutputs)
	}
	d.dustOutputs = sum
	return nil
}

// DustOutputsDec records one fewer dust output (one consumed) for this address.
func (d *BalanceDiff) DustOutputsDec() error {
	sum, ok := addChecked64(d.dustOutputs, -1)
	if !ok {
		return errors.Errorf("dust outputs overflow: %d - 1", d.dustOutputs)
	}
	d.dustOutputs = sum
	return nil
}

// merge adds other into d, pointwise, failing on overflow of any channel.
func (d *BalanceDiff) merge(other *BalanceDiff) error {
	sum, ok := addChecked64(d.amount, other.amount)
	if !ok {
		return errors.Errorf("amount merge overflow: %d + %d", d.amount, other.amount)
	}
	allowanceSum, ok := addChecked64(d.dustAllowance, other.dustAllowance)
	if !ok {
		return errors.Errorf("dust allowance merge overflow: %d + %d", d.dustAllowance, other.dustAllowance)
	}
	outputsSum, ok := addChecked64(d.dustOutputs, other.dustOutputs)
	if !ok {
		return errors.Errorf("dust outputs merge overflow: %d + %d", d.dustOutputs, other.dustOutputs)
	}
	d.amount = sum
	d.dustAllowance = allowanceSum
	d.dustOutputs = outputsSum
	return nil
}

// isNoOp reports whether this diff changes nothing at all (spec §3).
func (d *BalanceDiff) isNoOp() bool {
	return d.amount == 0 && d.dustAllowance == 0 && d.dustOutputs == 0
}

// BalanceDiffs maps Address to its accumulated BalanceDiff. Zero value is
// ready to use.
type BalanceDiffs struct {
	diffs     map[Address]*BalanceDiff
	addresses []Address
}

// NewBalanceDiffs returns an empty BalanceDiffs.
func NewBalanceDiffs() *BalanceDiffs {
	return &BalanceDiffs{diffs: make(map[Address]*BalanceDiff)}
}

func (bd *BalanceDiffs) entry(address Address) *BalanceDiff {
	if bd.diffs == nil {
		bd.diffs = make(map[Address]*BalanceDiff)
	}
	diff, ok := bd.diffs[address]
	if !ok {
		diff = &BalanceDiff{}
		bd.diffs[address] = diff
		bd.addresses = append(bd.addresses, address)
	}
	return diff
}

// AmountAdd credits amount to address's diff.
func (bd *BalanceDiffs) AmountAdd(address Address, amount uint64) error {
	return bd.entry(address).AmountAdd(amount)
}

// AmountSub debits amount from address's diff.
func (bd *BalanceDiffs) AmountSub(address Address, amount uint64) error {
	return bd.entry(address).AmountSub(amount)
}

// DustAllowanceAdd credits dust allowance to address's diff.
func (bd *BalanceDiffs) DustAllowanceAdd(address Address, amount uint64) error {
	return bd.entry(address).DustAllowanceAdd(amount)
}

// DustAllowanceSub debits dust allowance from address's diff.
func (bd *BalanceDiffs) DustAllowanceSub(address Address, amount uint64) error {
	return bd.entry(address).DustAllowanceSub(amount)
}

// DustOutputsInc records one more dust output created for address.
func (bd *BalanceDiffs) DustOutputsInc(address Address) error {
	return bd.entry(address).DustOutputsInc()
}

// DustOutputsDec records one fewer dust output for address.
func (bd *BalanceDiffs) DustOutputsDec(address Address) error {
	return bd.entry(address).DustOutputsDec()
}

// Get returns the diff accumulated for address, and whether one exists. A
// diff that is a no-op (see spec §3) is still returned if present; callers
// that care should check IsDustMutating/isNoOp themselves.
func (bd *BalanceDiffs) Get(address Address) (*BalanceDiff, bool) {
	diff, ok := bd.diffs[address]
	return diff, ok
}

// Merge adds other into bd pointwise, address by address, failing on the
// first overflow encountered.
func (bd *BalanceDiffs) Merge(other *BalanceDiffs) error {
	for _, address := range other.addresses {
		otherDiff := other.diffs[address]
		if err := bd.entry(address).merge(otherDiff); err != nil {
			return err
		}
	}
	return nil
}

// Iterate calls fn for every (address, diff) pair, in the order the
// addresses were first touched. A no-op diff is skipped, matching spec
// §3's definition that a diff with both channels zero and no dust change is
// not a mutation worth surfacing.
func (bd *BalanceDiffs) Iterate(fn func(address Address, diff *BalanceDiff) error) error {
	for _, address := range bd.addresses {
		diff := bd.diffs[address]
		if diff.isNoOp() {
			continue
		}
		if err := fn(address, diff); err != nil {
			return err
		}
	}
	return nil
}

// SumAmount returns the sum of Amount() across every address's diff. Used
// to check the global conservation law (spec §4.4, P1).
func (bd *BalanceDiffs) SumAmount() int64 {
	var sum int64
	for _, diff := range bd.diffs {
		sum += diff.amount
	}
	return sum
}

// Balance is the persisted per-address ledger state (spec §3).
type Balance struct {
	Amount        uint64
	DustAllowance uint64
	DustOutputs   uint64
}

// ApplyDiff produces the Balance that results from applying diff to b, or an
// error if the diff would drive any field negative or overflow a uint64.
func (b Balance) ApplyDiff(diff *BalanceDiff) (Balance, error) {
	amount, err := applySigned(b.Amount, diff.amount, "amount")
	if err != nil {
		return Balance{}, err
	}
	dustAllowance, err := applySigned(b.DustAllowance, diff.dustAllowance, "dust allowance")
	if err != nil {
		return Balance{}, err
	}
	dustOutputs, err := applySigned(b.DustOutputs, diff.dustOutputs, "dust outputs")
	if err != nil {
		return Balance{}, err
	}
	return Balance{Amount: amount, DustAllowance: dustAllowance, DustOutputs: dustOutputs}, nil
}

func applySigned(base uint64, delta int64, label string) (uint64, error) {
	result := new(big.Int).Add(new(big.Int).SetUint64(base), big.NewInt(delta))
	if result.Sign() < 0 {
		return 0, errors.Errorf("%s would go negative: %d + %d", label, base, delta)
	}
	if !result.IsUint64() {
		return 0, errors.Errorf("%s overflow: %d + %d", label, base, delta)
	}
	return result.Uint64(), nil
}
