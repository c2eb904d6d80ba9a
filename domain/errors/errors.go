// Package errors defines the fatal-error channel of the confirmation core.
//
// Fatal errors abort a whole milestone pass: they indicate either data
// corruption or an unknown-future variant the operator must handle by
// upgrading (spec §7). They are disjoint from ConflictReason, which is
// the non-fatal, per-message channel handled entirely inside
// externalapi.ConflictReason.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies the kind of fatal error that aborted a confirmation pass.
type ErrorCode int

const (
	// ErrStorage wraps an error coming from the storage backend.
	ErrStorage ErrorCode = iota

	// ErrMissingMessage is returned when the tangle has no vertex for an id
	// that is not a solid entry point.
	ErrMissingMessage

	// ErrConsumedAmountOverflow is returned when summing consumed amounts overflows a uint64.
	ErrConsumedAmountOverflow

	// ErrCreatedAmountOverflow is returned when summing created amounts overflows a uint64.
	ErrCreatedAmountOverflow

	// ErrUnsupportedInputKind is returned for any Input that is not Utxo.
	ErrUnsupportedInputKind

	// ErrUnsupportedOutputKind is returned for any Output shape this core does not recognize.
	ErrUnsupportedOutputKind

	// ErrUnsupportedTransactionEssenceKind is returned for any Essence that is not Regular.
	ErrUnsupportedTransactionEssenceKind

	// ErrInvalidMessagesCount is returned when referenced != included+excluded(conflicting)+excluded(no-tx).
	ErrInvalidMessagesCount

	// ErrNonZeroBalanceDiffSum is returned when the milestone's balance diffs don't net to zero.
	ErrNonZeroBalanceDiffSum

	// ErrOutputIDCreation is returned when an OutputId cannot be constructed for a created output.
	ErrOutputIDCreation
)

var errorCodeStrings = map[ErrorCode]string{
	ErrStorage:                           "Storage",
	ErrMissingMessage:                    "MissingMessage",
	ErrConsumedAmountOverflow:            "ConsumedAmountOverflow",
	ErrCreatedAmountOverflow:             "CreatedAmountOverflow",
	ErrUnsupportedInputKind:              "UnsupportedInputKind",
	ErrUnsupportedOutputKind:             "UnsupportedOutputKind",
	ErrUnsupportedTransactionEssenceKind: "UnsupportedTransactionEssenceKind",
	ErrInvalidMessagesCount:              "InvalidMessagesCount",
	ErrNonZeroBalanceDiffSum:             "NonZeroBalanceDiffSum",
	ErrOutputIDCreation:                  "OutputIdCreation",
}

// String returns the human-readable name of the error code.
func (code ErrorCode) String() string {
	if s, ok := errorCodeStrings[code]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(code))
}

// FatalError is a confirmation-aborting error. The caller must discard the
// in-progress WhiteFlagMetadata and start a fresh pass on retry; no partial
// state from a FatalError is ever committed.
type FatalError struct {
	ErrorCode ErrorCode
	cause     error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	if e.cause == nil {
		return e.ErrorCode.String()
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.cause)
}

// Cause lets pkg/errors.Cause and %+v unwrap to the underlying error.
func (e *FatalError) Cause() error { return e.cause }

// Unwrap supports errors.Is/errors.As from the standard library.
func (e *FatalError) Unwrap() error { return e.cause }

func newf(code ErrorCode, format string, args ...interface{}) *FatalError {
	return &FatalError{ErrorCode: code, cause: errors.Errorf(format, args...)}
}

// Storage wraps a failure returned by the storage backend.
func Storage(cause error) *FatalError {
	return &FatalError{ErrorCode: ErrStorage, cause: errors.Wrap(cause, "storage")}
}

// MissingMessage is returned when a referenced message id resolves to
// neither a tangle vertex nor a solid entry point.
func MissingMessage(id fmt.Stringer) *FatalError {
	return newf(ErrMissingMessage, "missing message %s", id)
}

// ConsumedAmountOverflow is returned when consumed_amount overflows uint64.
func ConsumedAmountOverflow(attempted uint64, adding uint64) *FatalError {
	return newf(ErrConsumedAmountOverflow, "consumed amount overflow: %d + %d", attempted, adding)
}

// CreatedAmountOverflow is returned when created_amount overflows uint64.
func CreatedAmountOverflow(attempted uint64, adding uint64) *FatalError {
	return newf(ErrCreatedAmountOverflow, "created amount overflow: %d + %d", attempted, adding)
}

// UnsupportedInputKind is returned for any Input kind other than Utxo.
func UnsupportedInputKind(kind byte) *FatalError {
	return newf(ErrUnsupportedInputKind, "unsupported input kind %d", kind)
}

// UnsupportedOutputKind is returned for any Output kind this core doesn't recognize.
func UnsupportedOutputKind(kind byte) *FatalError {
	return newf(ErrUnsupportedOutputKind, "unsupported output kind %d", kind)
}

// UnsupportedTransactionEssenceKind is returned for any Essence other than Regular.
func UnsupportedTransactionEssenceKind(kind byte) *FatalError {
	return newf(ErrUnsupportedTransactionEssenceKind, "unsupported transaction essence kind %d", kind)
}

// InvalidMessagesCount is returned when the post-traversal count identity fails.
func InvalidMessagesCount(total, noTx, conflict, included int) *FatalError {
	return newf(ErrInvalidMessagesCount,
		"invalid message count: referenced=%d noTransaction=%d conflicting=%d included=%d",
		total, noTx, conflict, included)
}

// NonZeroBalanceDiffSum is returned when the conservation law fails.
func NonZeroBalanceDiffSum(sum int64) *FatalError {
	return newf(ErrNonZeroBalanceDiffSum, "non-zero balance diff sum: %d", sum)
}

// OutputIDCreation is returned when a created output's OutputId can't be built.
func OutputIDCreation(index int) *FatalError {
	return newf(ErrOutputIDCreation, "cannot create output id for index %d", index)
}
