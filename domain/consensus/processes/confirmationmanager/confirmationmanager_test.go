package confirmationmanager_test

import (
	"reflect"
	"testing"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/processes/confirmationmanager"
	"github.com/daglabs/whiteflag/domain/consensus/utils/merkle"
)

type fakeTraversal struct {
	seedsSeen [][]externalapi.MessageId
	apply     func(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error
}

func (f *fakeTraversal) Traversal(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
	f.seedsSeen = append(f.seedsSeen, seeds)
	if f.apply != nil {
		return f.apply(seeds, metadata)
	}
	return nil
}

func idOf(b byte) externalapi.MessageId {
	return externalapi.MessageId{b}
}

func TestWhiteFlagReversesTipsBeforeTraversal(t *testing.T) {
	tips := []externalapi.MessageId{idOf(1), idOf(2), idOf(3)}
	traversal := &fakeTraversal{}
	manager := confirmationmanager.New(traversal)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.WhiteFlag(tips, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	want := []externalapi.MessageId{idOf(3), idOf(2), idOf(1)}
	if !reflect.DeepEqual(traversal.seedsSeen[0], want) {
		t.Fatalf("seeds passed to traversal = %v, want %v (reversed)", traversal.seedsSeen[0], want)
	}
}

func TestWhiteFlagComputesMerkleProofOverIncludedMessages(t *testing.T) {
	included := []externalapi.MessageId{idOf(5), idOf(6)}
	traversal := &fakeTraversal{apply: func(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
		metadata.IncludedMessages = included
		metadata.ReferencedMessages = 2
		return nil
	}}
	manager := confirmationmanager.New(traversal)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.WhiteFlag([]externalapi.MessageId{idOf(1)}, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	want := merkle.Hash(included)
	if metadata.MerkleProof != want {
		t.Fatalf("MerkleProof = %x, want %x", metadata.MerkleProof, want)
	}
}

func TestWhiteFlagPropagatesTraversalError(t *testing.T) {
	boom := externalapi.MessageId{0xFF}
	traversal := &fakeTraversal{apply: func(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
		return &traversalError{msg: "boom"}
	}}
	manager := confirmationmanager.New(traversal)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	err := manager.WhiteFlag([]externalapi.MessageId{boom}, metadata)
	if err == nil {
		t.Fatalf("expected traversal error to propagate")
	}
}

type traversalError struct{ msg string }

func (e *traversalError) Error() string { return e.msg }

func TestWhiteFlagRejectsInconsistentMessageCount(t *testing.T) {
	traversal := &fakeTraversal{apply: func(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
		metadata.ReferencedMessages = 5 // but nothing classified below
		return nil
	}}
	manager := confirmationmanager.New(traversal)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	err := manager.WhiteFlag([]externalapi.MessageId{idOf(1)}, metadata)
	if err == nil {
		t.Fatalf("expected an error when referenced count disagrees with the classified totals")
	}
}

func TestWhiteFlagRejectsNonZeroBalanceDiffSum(t *testing.T) {
	addr := externalapi.NewEd25519Address(make([]byte, 32))
	traversal := &fakeTraversal{apply: func(seeds []externalapi.MessageId, metadata *externalapi.WhiteFlagMetadata) error {
		metadata.ReferencedMessages = 1
		metadata.IncludedMessages = []externalapi.MessageId{idOf(1)}
		if err := metadata.BalanceDiffs.AmountAdd(addr, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return nil
	}}
	manager := confirmationmanager.New(traversal)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	err := manager.WhiteFlag([]externalapi.MessageId{idOf(1)}, metadata)
	if err == nil {
		t.Fatalf("expected an error when the global balance diff sum is non-zero")
	}
}
