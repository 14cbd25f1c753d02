// Package template defines cycle patterns: small declarative graphs that the
// rewrite engine stamps into a dungeon.
//
// # Cycle templates
//
// A [CycleTemplate] has a start room, a goal room and two arcs - ordered edge
// lists forming two parallel paths from start to goal. Some of its edges are
// declared as seams ([TInsertion]); once the template is in the dungeon, each
// seam may be replaced by a nested pattern, which is how loops grow inside
// loops.
//
// Templates live in their own id namespace ([TNodeID], [TEdgeID],
// [TInsertionID]). These are distinct Go types from the run-scoped ids in
// package dungeon, so the two can never be mixed up; the rewrite engine's
// instantiation step is the only place one is translated into the other.
//
// # Building
//
// Templates are immutable. [Builder] is the only way to make one:
//
//	b := template.NewBuilder(template.TwoAlternativePaths)
//	s := b.AddNode(dungeon.KindStart, "start")
//	g := b.AddNode(dungeon.KindGoal, "goal")
//	a := b.AddNode(dungeon.KindNormal, "a")
//	c := b.AddNode(dungeon.KindNormal, "b")
//	sa := b.AddEdge(s, a, dungeon.TraversalNormal)
//	ag := b.AddEdge(a, g, dungeon.TraversalNormal)
//	sc := b.AddEdge(s, c, dungeon.TraversalNormal)
//	cg := b.AddEdge(c, g, dungeon.TraversalNormal)
//	b.AddInsertion(sa)
//	tmpl, err := b.Build(s, g, []template.TEdgeID{sa, ag}, []template.TEdgeID{sc, cg})
//
// # Libraries
//
// A [Library] maps a [CycleType] to its template. [Registry] is the default
// implementation; registering the same type twice keeps the last template.
// Asking for an unregistered type is a configuration error
// (errors.ErrCodeTemplateNotFound) that ends the run.
package template
