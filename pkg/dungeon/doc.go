// Package dungeon provides the run-scoped identifier allocator and the
// mutable room graph that a generation run builds.
//
// # Identifiers
//
// Rooms, connections, insertion points, keys and gates are named by distinct
// integer types ([NodeID], [EdgeID], [InsertionID], [KeyID], [GateID]). An
// [Allocator] owns one monotonically increasing counter per kind, starting at
// 1. One allocator belongs to exactly one run: identifiers are unique within
// that run and never reused, even after deletion.
//
// # Graph
//
// [Graph] stores [RoomNode] and [RoomEdge] values keyed by identifier and
// keeps outgoing and incoming adjacency indices consistent on every mutation:
//
//	g := dungeon.New()
//	ids := dungeon.NewAllocator()
//	start, goal := ids.NewNode(), ids.NewNode()
//	_ = g.AddNode(dungeon.RoomNode{ID: start, Kind: dungeon.KindStart})
//	_ = g.AddNode(dungeon.RoomNode{ID: goal, Kind: dungeon.KindGoal})
//	_ = g.AddEdge(dungeon.RoomEdge{ID: ids.NewEdge(), From: start, To: goal})
//
// Edges must reference rooms already in the graph, and a room can only be
// removed once no edge touches it. [Graph.Validate] re-checks both invariants
// and that the graph has exactly one start and one goal.
//
// # Edges and gates
//
// Edges are directed. [Traversal] tells consumers whether an edge is an
// ordinary passage, a one-way drop, or a sightline that cannot be walked.
// An optional [EdgeGate] restricts the edge further, either as a lock
// requiring one key ([EdgeGate.RequiredKey]) or several
// ([EdgeGate.RequiredKeys], which takes priority), or as a keyless barrier.
//
// # Concurrency
//
// Neither Allocator nor Graph is safe for concurrent use. Separate runs own
// separate instances and may proceed in parallel.
package dungeon
