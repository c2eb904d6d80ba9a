package externalapi

import (
	"crypto/ed25519"
	"encoding/hex"
)

// AddressKind tags which signature scheme an Address was built from.
type AddressKind byte

const (
	// AddressKindEd25519 is the only signature scheme this core verifies.
	AddressKindEd25519 AddressKind = 0
)

// AddressSize is the length in bytes of the address payload (an Ed25519
// public key, or its hash for future schemes).
const AddressSize = 32

// Address is a tagged variant over signature schemes. It is a plain,
// comparable struct (not an interface) so it can be used directly as a map
// key in BalanceDiffs, the same way wire.Outpoint is used as a map key in
// utxoCollection.
type Address struct {
	kind    AddressKind
	payload [AddressSize]byte
}

// NewEd25519Address builds an Address around an Ed25519 public key.
func NewEd25519Address(publicKey ed25519.PublicKey) Address {
	var addr Address
	addr.kind = AddressKindEd25519
	copy(addr.payload[:], publicKey)
	return addr
}

// Kind returns the address's signature scheme tag.
func (a Address) Kind() AddressKind {
	return a.kind
}

// Bytes returns the address's raw payload, for serialization.
func (a Address) Bytes() []byte {
	return a.payload[:]
}

// AddressFromBytes rebuilds an Address from a previously serialized payload.
// It always reconstructs an Ed25519 address: this core does not yet persist
// the kind byte separately, since AddressKindEd25519 is the only recognized
// scheme (spec GLOSSARY).
func AddressFromBytes(payload []byte) Address {
	var addr Address
	addr.kind = AddressKindEd25519
	copy(addr.payload[:], payload)
	return addr
}

// String returns the hexadecimal representation of the address payload.
func (a Address) String() string {
	return hex.EncodeToString(a.payload[:])
}

// Verify reports whether signature is a valid signature of hash under this
// address. Addresses with an unrecognized kind never verify.
func (a Address) Verify(hash []byte, signature []byte) bool {
	switch a.kind {
	case AddressKindEd25519:
		if len(signature) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(a.payload[:]), hash, signature)
	default:
		return false
	}
}
