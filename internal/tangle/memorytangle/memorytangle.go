// Package memorytangle is an in-memory model.Tangle, used by tests and by
// the demo CLI in place of a real gossip-fed message store.
package memorytangle

import (
	"sync"

	"github.com/daglabs/whiteflag/domain/consensus/model"
	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
)

// vertex is the concrete, mutable model.Vertex/model.VertexMetadata pair
// memoryTangle stores per message.
type vertex struct {
	message    *externalapi.Message
	referenced bool
}

// MessageAndMetadata implements model.Vertex.
func (v *vertex) MessageAndMetadata() (*externalapi.Message, model.VertexMetadata) {
	return v.message, v
}

// IsReferenced implements model.VertexMetadata.
func (v *vertex) IsReferenced() bool {
	return v.referenced
}

// MemoryTangle is a trivially concurrency-safe in-memory model.Tangle.
type MemoryTangle struct {
	mu               sync.RWMutex
	vertices         map[externalapi.MessageId]*vertex
	solidEntryPoints map[externalapi.MessageId]struct{}
}

// New creates an empty MemoryTangle.
func New() *MemoryTangle {
	return &MemoryTangle{
		vertices:         make(map[externalapi.MessageId]*vertex),
		solidEntryPoints: make(map[externalapi.MessageId]struct{}),
	}
}

// AddMessage stores message, unreferenced, replacing any prior entry for its id.
func (t *MemoryTangle) AddMessage(message *externalapi.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.vertices[message.Id] = &vertex{message: message}
}

// AddSolidEntryPoint marks id as a pruning anchor: the traversal stops there
// instead of failing when it cannot find a vertex.
func (t *MemoryTangle) AddSolidEntryPoint(id externalapi.MessageId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.solidEntryPoints[id] = struct{}{}
}

// MarkReferenced flags id as already confirmed by a prior milestone. A
// no-op if id is not present.
func (t *MemoryTangle) MarkReferenced(id externalapi.MessageId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.vertices[id]; ok {
		v.referenced = true
	}
}

// GetVertex implements model.Tangle.
func (t *MemoryTangle) GetVertex(id externalapi.MessageId) (model.Vertex, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.vertices[id]
	if !ok {
		return nil, false, nil
	}
	// Hand out a snapshot taken under the lock, so a later MarkReferenced
	// never races with a reader of the returned vertex.
	snapshot := *v
	return &snapshot, true, nil
}

// IsSolidEntryPoint implements model.Tangle.
func (t *MemoryTangle) IsSolidEntryPoint(id externalapi.MessageId) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.solidEntryPoints[id]
	return ok, nil
}
