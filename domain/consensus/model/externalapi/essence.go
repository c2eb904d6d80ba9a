package externalapi

import (
	"encoding/binary"

	"github.com/daglabs/whiteflag/domain/consensus/utils/hashes"
)

// EssenceKind tags the shape of a transaction Essence.
type EssenceKind byte

const (
	// EssenceKindRegular is the only essence kind this core processes.
	EssenceKindRegular EssenceKind = 0
)

// Essence is a tagged variant. Only Regular is handled by this core; any
// other kind is a fatal error (spec §3/§4.2).
type Essence interface {
	Kind() EssenceKind
}

// RegularEssence carries the ordered inputs and outputs of a transaction.
type RegularEssence struct {
	Inputs  []Input
	Outputs []Output
}

// Kind implements Essence.
func (e *RegularEssence) Kind() EssenceKind { return EssenceKindRegular }

// UnknownEssence is any essence shape this core does not recognize.
type UnknownEssence struct {
	EssenceKind byte
}

// Kind implements Essence.
func (e *UnknownEssence) Kind() EssenceKind { return EssenceKind(e.EssenceKind) }

// Hash deterministically hashes a RegularEssence's inputs and outputs, in
// declaration order, into the 32-byte digest that unlock block signatures
// are verified against. It is computed once per essence and reused for
// every signature check at every input position (spec's SUPPLEMENTED
// FEATURES note, grounded on the Rust original computing essence_hash once
// outside the per-input loop).
func (e *RegularEssence) Hash() [32]byte {
	w := hashes.NewHashWriter()

	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(e.Inputs)))
	w.Write(lenBuf[:])
	for _, input := range e.Inputs {
		writeInput(w, input)
	}

	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(e.Outputs)))
	w.Write(lenBuf[:])
	for _, output := range e.Outputs {
		writeOutput(w, output)
	}

	return w.Finalize()
}

func writeInput(w *hashes.HashWriter, input Input) {
	w.Write([]byte{byte(input.Kind())})
	if utxo, ok := input.(*UtxoInput); ok {
		w.Write(utxo.OutputId.TransactionId[:])
		var idxBuf [2]byte
		binary.LittleEndian.PutUint16(idxBuf[:], utxo.OutputId.Index)
		w.Write(idxBuf[:])
	}
}

func writeOutput(w *hashes.HashWriter, output Output) {
	w.Write([]byte{byte(output.Kind())})
	address := output.GetAddress()
	w.Write([]byte{byte(address.Kind())})
	w.Write(address.payload[:])
	var amountBuf [8]byte
	binary.LittleEndian.PutUint64(amountBuf[:], output.GetAmount())
	w.Write(amountBuf[:])
}
