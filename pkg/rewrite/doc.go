// Package rewrite implements the graph surgery at the heart of cyclegen:
// stamping a [template.CycleTemplate] into a [dungeon.Graph] and splicing the
// result in place of a seam edge.
//
// # Instantiation
//
// [Engine.Instantiate] allocates a fresh run-scoped id for every local node
// and edge of a template, copies the structure into the graph, and turns each
// declared seam into an [InsertionPoint]. The returned [CycleInstance] keeps
// the local-to-global mapping so rules can address the rooms their template
// declared:
//
//	inst, _ := eng.Instantiate(tmpl, 1)
//	door, _ := inst.EdgeFor(lockedEdge) // template-local -> dungeon.EdgeID
//
// # Splicing
//
// [Engine.Splice] is the only operation that removes anything. Given a seam
// A -> B it:
//
//  1. reads A, B, the traversal and the gate of the seam
//  2. removes the seam edge (A and B stay)
//  3. adds A -> Entry carrying the seam's traversal and gate
//  4. adds Exit -> B as a plain edge
//
// A locked seam therefore stays locked: the lock now guards the way into the
// nested fragment. All other nodes and edges, including every other edge of
// A and B, are left exactly as they were.
//
//	Before:  A ──seam──▶ B
//	After:   A ──▶ Entry ═══ instance ═══ Exit ──▶ B
package rewrite
