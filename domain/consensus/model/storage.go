// Package model declares the external contracts the confirmation core
// consumes (storage, tangle) and the internal contracts its own components
// expose to each other, mirroring the teacher's "managers behind
// interfaces, wired by New(...) constructors" idiom.
package model

import "github.com/daglabs/whiteflag/domain/consensus/model/externalapi"

// Storage is the abstract key/value+stream backend the core reads against
// (spec §6). Writes happen only after a white-flag pass returns success;
// the write path is outside this core's contract.
type Storage interface {
	// FetchOutput returns the output for outputID, or found=false if storage
	// has never heard of it.
	FetchOutput(outputID externalapi.OutputId) (output externalapi.Output, found bool, err error)

	// IsOutputUnspent reports whether outputID is still unspent as of the
	// storage's current ledger state. Only meaningful for an output that
	// FetchOutput reports as found.
	IsOutputUnspent(outputID externalapi.OutputId) (bool, error)

	// FetchBalanceOrDefault returns address's persisted Balance, or the zero
	// Balance if address has never been touched.
	FetchBalanceOrDefault(address externalapi.Address) (externalapi.Balance, error)
}
