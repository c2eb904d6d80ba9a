package model

import "github.com/daglabs/whiteflag/domain/consensus/model/externalapi"

// Tangle is the abstract DAG of messages the core traverses read-only
// (spec §6). The tangle must guarantee vertex immutability for any id whose
// is_referenced flag is not yet set for the duration of a pass that visits
// it (spec §5); this core never mutates a vertex itself.
type Tangle interface {
	// GetVertex returns the vertex for id, or found=false if the tangle has
	// no such vertex (it may still be a solid entry point).
	GetVertex(id externalapi.MessageId) (vertex Vertex, found bool, err error)

	// IsSolidEntryPoint reports whether id is an anchor below which history
	// has been pruned. Traversal stops there instead of failing.
	IsSolidEntryPoint(id externalapi.MessageId) (bool, error)
}

// Vertex exposes a clonable view of a tangle entry's message and metadata.
type Vertex interface {
	MessageAndMetadata() (*externalapi.Message, VertexMetadata)
}

// VertexMetadata exposes the mutable flags a tangle tracks per vertex. Only
// IsReferenced matters to this core: a vertex already confirmed by a prior
// milestone is skipped, not re-applied (spec §4.3).
type VertexMetadata interface {
	IsReferenced() bool
}
