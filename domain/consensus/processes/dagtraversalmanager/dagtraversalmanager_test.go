package dagtraversalmanager_test

import (
	"reflect"
	"testing"

	"github.com/daglabs/whiteflag/domain/consensus/model"
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/processes/dagtraversalmanager"
)

type fakeVertex struct {
	message    *externalapi.Message
	referenced bool
}

func (v *fakeVertex) MessageAndMetadata() (*externalapi.Message, model.VertexMetadata) {
	return v.message, vertexMetadata{referenced: v.referenced}
}

type vertexMetadata struct {
	referenced bool
}

func (m vertexMetadata) IsReferenced() bool { return m.referenced }

type fakeTangle struct {
	vertices         map[externalapi.MessageId]*fakeVertex
	solidEntryPoints map[externalapi.MessageId]bool
}

func newFakeTangle() *fakeTangle {
	return &fakeTangle{
		vertices:         make(map[externalapi.MessageId]*fakeVertex),
		solidEntryPoints: make(map[externalapi.MessageId]bool),
	}
}

func (tg *fakeTangle) addMessage(id externalapi.MessageId, parents []externalapi.MessageId, payload externalapi.Payload, referenced bool) {
	tg.vertices[id] = &fakeVertex{
		message:    &externalapi.Message{Id: id, Parents: parents, Payload: payload},
		referenced: referenced,
	}
}

func (tg *fakeTangle) GetVertex(id externalapi.MessageId) (model.Vertex, bool, error) {
	v, ok := tg.vertices[id]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (tg *fakeTangle) IsSolidEntryPoint(id externalapi.MessageId) (bool, error) {
	return tg.solidEntryPoints[id], nil
}

type fakeValidator struct {
	order    []externalapi.MessageId
	conflict map[externalapi.MessageId]externalapi.ConflictReason
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{conflict: make(map[externalapi.MessageId]externalapi.ConflictReason)}
}

func (v *fakeValidator) ApplyTransaction(
	messageID externalapi.MessageId,
	transaction *externalapi.TransactionPayload,
	metadata *externalapi.WhiteFlagMetadata,
) (externalapi.ConflictReason, error) {
	v.order = append(v.order, messageID)
	return v.conflict[messageID], nil
}

func idOf(b byte) externalapi.MessageId {
	return externalapi.MessageId{b}
}

func txPayload() externalapi.Payload {
	return externalapi.NewTransactionPayload(&externalapi.RegularEssence{}, nil)
}

func TestTraversalLinearChainPostOrder(t *testing.T) {
	tangle := newFakeTangle()
	genesis, a, tip := idOf(1), idOf(2), idOf(3)

	tangle.solidEntryPoints[genesis] = true
	tangle.addMessage(a, []externalapi.MessageId{genesis}, txPayload(), false)
	tangle.addMessage(tip, []externalapi.MessageId{a}, txPayload(), false)

	validator := newFakeValidator()
	manager := dagtraversalmanager.New(tangle, validator)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.Traversal([]externalapi.MessageId{tip}, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	want := []externalapi.MessageId{a, tip}
	if !reflect.DeepEqual(validator.order, want) {
		t.Fatalf("validator order = %v, want %v", validator.order, want)
	}
	if metadata.ReferencedMessages != 2 {
		t.Fatalf("ReferencedMessages = %d, want 2", metadata.ReferencedMessages)
	}
}

func TestTraversalSkipsAlreadyReferenced(t *testing.T) {
	tangle := newFakeTangle()
	genesis, a, tip := idOf(1), idOf(2), idOf(3)

	tangle.solidEntryPoints[genesis] = true
	tangle.addMessage(a, []externalapi.MessageId{genesis}, txPayload(), true) // already referenced
	tangle.addMessage(tip, []externalapi.MessageId{a}, txPayload(), false)

	validator := newFakeValidator()
	manager := dagtraversalmanager.New(tangle, validator)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.Traversal([]externalapi.MessageId{tip}, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	want := []externalapi.MessageId{tip}
	if !reflect.DeepEqual(validator.order, want) {
		t.Fatalf("validator order = %v, want %v", validator.order, want)
	}
	if metadata.ReferencedMessages != 1 {
		t.Fatalf("ReferencedMessages = %d, want 1 (already-referenced vertex does not re-count)", metadata.ReferencedMessages)
	}
}

func TestTraversalDiamondVisitsSharedAncestorOnce(t *testing.T) {
	tangle := newFakeTangle()
	genesis, a, b, tip := idOf(1), idOf(2), idOf(3), idOf(4)

	tangle.solidEntryPoints[genesis] = true
	tangle.addMessage(a, []externalapi.MessageId{genesis}, txPayload(), false)
	tangle.addMessage(b, []externalapi.MessageId{genesis}, txPayload(), false)
	tangle.addMessage(tip, []externalapi.MessageId{a, b}, txPayload(), false)

	validator := newFakeValidator()
	manager := dagtraversalmanager.New(tangle, validator)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.Traversal([]externalapi.MessageId{tip}, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	want := []externalapi.MessageId{a, b, tip}
	if !reflect.DeepEqual(validator.order, want) {
		t.Fatalf("validator order = %v, want %v", validator.order, want)
	}
	if metadata.ReferencedMessages != 3 {
		t.Fatalf("ReferencedMessages = %d, want 3", metadata.ReferencedMessages)
	}
}

func TestTraversalMissingMessageIsFatal(t *testing.T) {
	tangle := newFakeTangle()
	missing := idOf(9)

	validator := newFakeValidator()
	manager := dagtraversalmanager.New(tangle, validator)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	err := manager.Traversal([]externalapi.MessageId{missing}, metadata)
	if err == nil {
		t.Fatalf("expected a fatal error for a missing, non-solid-entry-point message")
	}
}

func TestTraversalNoTransactionPayloadIsExcludedNotIncluded(t *testing.T) {
	tangle := newFakeTangle()
	genesis, indexed := idOf(1), idOf(2)

	tangle.solidEntryPoints[genesis] = true
	tangle.addMessage(indexed, []externalapi.MessageId{genesis}, &externalapi.IndexationPayload{}, false)

	validator := newFakeValidator()
	manager := dagtraversalmanager.New(tangle, validator)
	metadata := externalapi.NewWhiteFlagMetadata(1)

	if err := manager.Traversal([]externalapi.MessageId{indexed}, metadata); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if len(validator.order) != 0 {
		t.Fatalf("validator should not be called for a non-transaction payload")
	}
	if len(metadata.ExcludedNoTransactionMessages) != 1 {
		t.Fatalf("expected 1 excluded-no-transaction message, got %d", len(metadata.ExcludedNoTransactionMessages))
	}
}
