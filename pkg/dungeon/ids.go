package dungeon

import "fmt"

// NodeID identifies a room within one generation run.
type NodeID int

// EdgeID identifies a connection within one generation run.
type EdgeID int

// InsertionID identifies an insertion point within one generation run.
type InsertionID int

// KeyID identifies a key granted by a room.
type KeyID int

// GateID identifies a gate placed on an edge.
type GateID int

func (id NodeID) String() string      { return fmt.Sprintf("n%d", int(id)) }
func (id EdgeID) String() string      { return fmt.Sprintf("e%d", int(id)) }
func (id InsertionID) String() string { return fmt.Sprintf("i%d", int(id)) }
func (id KeyID) String() string       { return fmt.Sprintf("k%d", int(id)) }
func (id GateID) String() string      { return fmt.Sprintf("g%d", int(id)) }

// Allocator mints identifiers for one generation run. Each kind has its own
// counter starting at 1; identifiers are never reused, even after the entity
// they named is removed from the graph.
//
// The zero value is ready to use. Allocator is not safe for concurrent use
// and must not be shared between runs.
type Allocator struct {
	node      int
	edge      int
	insertion int
	key       int
	gate      int
}

// NewAllocator returns a fresh allocator whose counters all start at 1.
func NewAllocator() *Allocator { return &Allocator{} }

// NewNode returns the next unused NodeID.
func (a *Allocator) NewNode() NodeID {
	a.node++
	return NodeID(a.node)
}

// NewEdge returns the next unused EdgeID.
func (a *Allocator) NewEdge() EdgeID {
	a.edge++
	return EdgeID(a.edge)
}

// NewInsertion returns the next unused InsertionID.
func (a *Allocator) NewInsertion() InsertionID {
	a.insertion++
	return InsertionID(a.insertion)
}

// NewKey returns the next unused KeyID.
func (a *Allocator) NewKey() KeyID {
	a.key++
	return KeyID(a.key)
}

// NewGate returns the next unused GateID.
func (a *Allocator) NewGate() GateID {
	a.gate++
	return GateID(a.gate)
}
