package memorytangle_test

import (
	"testing"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/internal/tangle/memorytangle"
)

func TestGetVertexMissing(t *testing.T) {
	tangle := memorytangle.New()
	_, found, err := tangle.GetVertex(externalapi.MessageId{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected found=false for an empty tangle")
	}
}

func TestAddMessageThenGetVertex(t *testing.T) {
	tangle := memorytangle.New()
	id := externalapi.MessageId{0x01}
	message := &externalapi.Message{Id: id, Parents: nil, Payload: &externalapi.IndexationPayload{}}
	tangle.AddMessage(message)

	v, found, err := tangle.GetVertex(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatalf("expected found=true")
	}
	gotMessage, metadata := v.MessageAndMetadata()
	if gotMessage != message {
		t.Fatalf("got a different message back than was added")
	}
	if metadata.IsReferenced() {
		t.Fatalf("a freshly added message should not be referenced")
	}
}

func TestMarkReferenced(t *testing.T) {
	tangle := memorytangle.New()
	id := externalapi.MessageId{0x02}
	tangle.AddMessage(&externalapi.Message{Id: id})
	tangle.MarkReferenced(id)

	v, _, err := tangle.GetVertex(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, metadata := v.MessageAndMetadata()
	if !metadata.IsReferenced() {
		t.Fatalf("expected the message to be marked referenced")
	}
}

func TestSolidEntryPoint(t *testing.T) {
	tangle := memorytangle.New()
	id := externalapi.MessageId{0x03}

	isSEP, err := tangle.IsSolidEntryPoint(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isSEP {
		t.Fatalf("an untouched id should not be a solid entry point")
	}

	tangle.AddSolidEntryPoint(id)
	isSEP, err = tangle.IsSolidEntryPoint(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isSEP {
		t.Fatalf("expected id to be a solid entry point after AddSolidEntryPoint")
	}
}
