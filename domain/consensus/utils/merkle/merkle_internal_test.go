package merkle

import (
	"testing"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/utils/hashes"
)

func mustMessageID(b byte) externalapi.MessageId {
	var id externalapi.MessageId
	id[0] = b
	return id
}

func TestHashEmpty(t *testing.T) {
	got := Hash(nil)
	want := hashes.Sum256(nil)
	if got != want {
		t.Fatalf("Hash(nil) = %x, want %x", got, want)
	}
}

func TestHashSingleLeaf(t *testing.T) {
	id := mustMessageID(0x42)
	got := Hash([]externalapi.MessageId{id})

	w := hashes.NewHashWriter()
	w.Write([]byte{domainSeparationLeaf})
	w.Write(id[:])
	want := w.Finalize()

	if got != want {
		t.Fatalf("Hash(single) = %x, want %x", got, want)
	}
}

func TestLargestPowerOfTwoLessThan(t *testing.T) {
	cases := map[int]int{2: 1, 3: 2, 4: 2, 5: 4, 8: 4, 9: 8, 16: 8, 17: 16}
	for n, want := range cases {
		if got := largestPowerOfTwoLessThan(n); got != want {
			t.Fatalf("largestPowerOfTwoLessThan(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestHashOrderSensitive(t *testing.T) {
	a := mustMessageID(1)
	b := mustMessageID(2)
	c := mustMessageID(3)

	h1 := Hash([]externalapi.MessageId{a, b, c})
	h2 := Hash([]externalapi.MessageId{c, b, a})

	if h1 == h2 {
		t.Fatalf("Hash should be sensitive to input order")
	}
}

func TestHashDeterministic(t *testing.T) {
	ids := []externalapi.MessageId{mustMessageID(1), mustMessageID(2), mustMessageID(3), mustMessageID(4), mustMessageID(5)}
	h1 := Hash(ids)
	h2 := Hash(ids)
	if h1 != h2 {
		t.Fatalf("Hash should be deterministic for the same input")
	}
}

func TestHashSingleBitFlipChangesRoot(t *testing.T) {
	ids := []externalapi.MessageId{mustMessageID(1), mustMessageID(2), mustMessageID(3)}
	h1 := Hash(ids)

	flipped := mustMessageID(1)
	flipped[31] ^= 0x01
	ids[0] = flipped
	h2 := Hash(ids)

	if h1 == h2 {
		t.Fatalf("flipping a single bit in the input list should change the Merkle root")
	}
}
