package externalapi

// OutputKind tags which of the two recognized output shapes a value is.
// Any other wire-level kind is a fatal error to this core (spec §3/§4.2).
type OutputKind byte

const (
	// OutputKindSignatureLockedSingle is a plain value output locked to an address.
	OutputKindSignatureLockedSingle OutputKind = 0

	// OutputKindSignatureLockedDustAllowance is a value output that additionally
	// grants its address the right to hold dust outputs.
	OutputKindSignatureLockedDustAllowance OutputKind = 1
)

// DustThreshold is the protocol-wide amount below which an output is
// considered dust (spec GLOSSARY, §4.2). See DESIGN.md for why this value
// was chosen to resolve spec's open dependency on network constants.
const DustThreshold uint64 = 1_000_000

// DustOutputsMax is the policy function capping the number of dust outputs
// an address may hold given its cumulative dust-allowance deposits. See
// DESIGN.md for the Open Question this resolves.
func DustOutputsMax(dustAllowance uint64) int64 {
	return int64(dustAllowance / 100_000)
}

// Output is a tagged variant over the output shapes this core understands.
type Output interface {
	Kind() OutputKind
	GetAddress() Address
	GetAmount() uint64
}

// SignatureLockedSingleOutput locks amount to address, redeemable by a single signature.
type SignatureLockedSingleOutput struct {
	Address Address
	Amount  uint64
}

// Kind implements Output.
func (o *SignatureLockedSingleOutput) Kind() OutputKind { return OutputKindSignatureLockedSingle }

// GetAddress implements Output.
func (o *SignatureLockedSingleOutput) GetAddress() Address { return o.Address }

// GetAmount implements Output.
func (o *SignatureLockedSingleOutput) GetAmount() uint64 { return o.Amount }

// SignatureLockedDustAllowanceOutput locks amount to address and grants it a
// dust allowance. The parser enforces amount >= DustThreshold elsewhere;
// this core does not re-check it.
type SignatureLockedDustAllowanceOutput struct {
	Address Address
	Amount  uint64
}

// Kind implements Output.
func (o *SignatureLockedDustAllowanceOutput) Kind() OutputKind {
	return OutputKindSignatureLockedDustAllowance
}

// GetAddress implements Output.
func (o *SignatureLockedDustAllowanceOutput) GetAddress() Address { return o.Address }

// GetAmount implements Output.
func (o *SignatureLockedDustAllowanceOutput) GetAmount() uint64 { return o.Amount }

// UnknownOutput is any output shape this core does not recognize. Seeing
// one during validation is a fatal error (non_exhaustive enums fail loud,
// spec §9).
type UnknownOutput struct {
	OutputKind byte
}

// Kind implements Output.
func (o *UnknownOutput) Kind() OutputKind { return OutputKind(o.OutputKind) }

// GetAddress implements Output. It always returns the zero Address.
func (o *UnknownOutput) GetAddress() Address { return Address{} }

// GetAmount implements Output. It always returns zero.
func (o *UnknownOutput) GetAmount() uint64 { return 0 }
