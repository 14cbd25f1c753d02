// Package builtin provides the pattern catalogue cyclegen ships with.
//
// Each pattern is a [template.CycleTemplate] plus an optional [rules.Rule].
// The rule closes over the template's local ids, so it can find "the key
// room" or "the locked door" in any instance without the generator knowing
// anything about the pattern.
//
//	lib := template.NewRegistry()
//	rr := rules.NewRegistry()
//	builtin.Register(lib, rr)
package builtin

import (
	"github.com/matzehuels/cyclegen/pkg/dungeon"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
	"github.com/matzehuels/cyclegen/pkg/rules"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// Pattern bundles a template with its rule. Rule is nil for patterns that
// need no post-processing.
type Pattern struct {
	Template *template.CycleTemplate
	Rule     rules.Rule
}

type ruleFunc = func(*rewrite.CycleInstance, *dungeon.Graph, *dungeon.Allocator) error

// Patterns returns freshly built copies of every built-in pattern, in the
// order of [Types].
func Patterns() []Pattern {
	return []Pattern{
		twoAlternativePaths(),
		lockAndKey(),
		twoKeys(),
		hiddenShortcut(),
		dangerousRoute(),
		foreshadowingLoop(),
		blockedRetreat(),
	}
}

// Types lists the built-in pattern types.
func Types() []template.CycleType {
	return []template.CycleType{
		template.TwoAlternativePaths,
		template.LockAndKey,
		template.TwoKeys,
		template.HiddenShortcut,
		template.DangerousRoute,
		template.ForeshadowingLoop,
		template.BlockedRetreat,
	}
}

// Register installs every built-in template into lib and every built-in rule
// into rr. rr may be nil to register templates only.
func Register(lib *template.Registry, rr *rules.Registry) {
	for _, p := range Patterns() {
		lib.Register(p.Template)
		if p.Rule != nil && rr != nil {
			rr.Register(p.Rule)
		}
	}
}

// Library returns a new registry holding every built-in template together
// with a rule registry holding their rules.
func Library() (*template.Registry, *rules.Registry) {
	lib, rr := template.NewRegistry(), rules.NewRegistry()
	Register(lib, rr)
	return lib, rr
}

func arc(ids ...template.TEdgeID) []template.TEdgeID { return ids }

func rule(t template.CycleType, fn ruleFunc) rules.Rule {
	return rules.Func{T: t, Fn: fn}
}

// S -> a -> G, S -> b -> G.
func twoAlternativePaths() Pattern {
	b := template.NewBuilder(template.TwoAlternativePaths)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	x := b.AddNode(dungeon.KindNormal, "a")
	y := b.AddNode(dungeon.KindNormal, "b")
	sx := b.AddEdge(s, x, dungeon.TraversalNormal)
	xg := b.AddEdge(x, g, dungeon.TraversalNormal)
	sy := b.AddEdge(s, y, dungeon.TraversalNormal)
	yg := b.AddEdge(y, g, dungeon.TraversalNormal)
	b.AddInsertion(sx)
	b.AddInsertion(yg)
	return Pattern{Template: b.MustBuild(s, g, arc(sx, xg), arc(sy, yg))}
}

// S -> key -> G, S -> lock -> G where lock -> G is the door.
func lockAndKey() Pattern {
	b := template.NewBuilder(template.LockAndKey)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	k := b.AddNode(dungeon.KindNormal, "key")
	l := b.AddNode(dungeon.KindNormal, "lock")
	sk := b.AddEdge(s, k, dungeon.TraversalNormal)
	kg := b.AddEdge(k, g, dungeon.TraversalNormal)
	sl := b.AddEdge(s, l, dungeon.TraversalNormal)
	door := b.AddEdge(l, g, dungeon.TraversalNormal)
	b.AddInsertion(sk)
	b.AddInsertion(sl)

	return Pattern{
		Template: b.MustBuild(s, g, arc(sk, kg), arc(sl, door)),
		Rule: rule(template.LockAndKey, func(inst *rewrite.CycleInstance, gr *dungeon.Graph, alloc *dungeon.Allocator) error {
			key := alloc.NewKey()
			if err := rules.Tag(gr, inst, k, dungeon.KeyTag(key)); err != nil {
				return err
			}
			if err := rules.Tag(gr, inst, l, dungeon.NodeTag{Kind: dungeon.TagLockHint}); err != nil {
				return err
			}
			_, err := rules.Lock(gr, inst, alloc, door, dungeon.GateLock, dungeon.StrengthHard, key)
			return err
		}),
	}
}

// Two key branches; the first door needs both keys, the second is a soft
// barrier.
func twoKeys() Pattern {
	b := template.NewBuilder(template.TwoKeys)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	k1 := b.AddNode(dungeon.KindNormal, "key1")
	k2 := b.AddNode(dungeon.KindNormal, "key2")
	s1 := b.AddEdge(s, k1, dungeon.TraversalNormal)
	d1 := b.AddEdge(k1, g, dungeon.TraversalNormal)
	s2 := b.AddEdge(s, k2, dungeon.TraversalNormal)
	d2 := b.AddEdge(k2, g, dungeon.TraversalNormal)
	b.AddInsertion(s1)
	b.AddInsertion(s2)

	return Pattern{
		Template: b.MustBuild(s, g, arc(s1, d1), arc(s2, d2)),
		Rule: rule(template.TwoKeys, func(inst *rewrite.CycleInstance, gr *dungeon.Graph, alloc *dungeon.Allocator) error {
			first, second := alloc.NewKey(), alloc.NewKey()
			if err := rules.Tag(gr, inst, k1, dungeon.KeyTag(first)); err != nil {
				return err
			}
			if err := rules.Tag(gr, inst, k2, dungeon.KeyTag(second)); err != nil {
				return err
			}
			if _, err := rules.Lock(gr, inst, alloc, d1, dungeon.GateLock, dungeon.StrengthHard, first, second); err != nil {
				return err
			}
			_, err := rules.Lock(gr, inst, alloc, d2, dungeon.GateBarrier, dungeon.StrengthSoft)
			return err
		}),
	}
}

// Long way round, plus a hidden shortcut S -> G that cannot be seen from S.
func hiddenShortcut() Pattern {
	b := template.NewBuilder(template.HiddenShortcut)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	x := b.AddNode(dungeon.KindNormal, "a")
	y := b.AddNode(dungeon.KindNormal, "b")
	sx := b.AddEdge(s, x, dungeon.TraversalNormal)
	xy := b.AddEdge(x, y, dungeon.TraversalNormal)
	yg := b.AddEdge(y, g, dungeon.TraversalNormal)
	shortcut := b.AddEdge(s, g, dungeon.TraversalSightlineBlocked)
	b.AddInsertion(sx)
	b.AddInsertion(yg)

	return Pattern{
		Template: b.MustBuild(s, g, arc(sx, xy, yg), arc(shortcut)),
		Rule: rule(template.HiddenShortcut, func(inst *rewrite.CycleInstance, gr *dungeon.Graph, alloc *dungeon.Allocator) error {
			if _, err := rules.Lock(gr, inst, alloc, shortcut, dungeon.GateBarrier, dungeon.StrengthSoft); err != nil {
				return err
			}
			return rules.Tag(gr, inst, s, dungeon.NodeTag{Kind: dungeon.TagSecret})
		}),
	}
}

// A short dangerous arc and a long safe one.
func dangerousRoute() Pattern {
	b := template.NewBuilder(template.DangerousRoute)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	d := b.AddNode(dungeon.KindNormal, "danger")
	s1 := b.AddNode(dungeon.KindNormal, "safe1")
	s2 := b.AddNode(dungeon.KindNormal, "safe2")
	sd := b.AddEdge(s, d, dungeon.TraversalNormal)
	dg := b.AddEdge(d, g, dungeon.TraversalNormal)
	ss1 := b.AddEdge(s, s1, dungeon.TraversalNormal)
	s1s2 := b.AddEdge(s1, s2, dungeon.TraversalNormal)
	s2g := b.AddEdge(s2, g, dungeon.TraversalNormal)
	b.AddInsertion(ss1)
	b.AddInsertion(s2g)

	return Pattern{
		Template: b.MustBuild(s, g, arc(sd, dg), arc(ss1, s1s2, s2g)),
		Rule: rule(template.DangerousRoute, func(inst *rewrite.CycleInstance, gr *dungeon.Graph, _ *dungeon.Allocator) error {
			return rules.Tag(gr, inst, d, dungeon.NodeTag{Kind: dungeon.TagDanger})
		}),
	}
}

// The goal is visible early through a view edge that cannot be walked.
func foreshadowingLoop() Pattern {
	b := template.NewBuilder(template.ForeshadowingLoop)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	v := b.AddNode(dungeon.KindNormal, "vista")
	sv := b.AddEdge(s, v, dungeon.TraversalNormal)
	vg := b.AddEdge(v, g, dungeon.TraversalNormal)
	view := b.AddEdge(s, g, dungeon.TraversalSightlineBlocked)
	b.AddInsertion(sv)
	b.AddInsertion(vg)

	return Pattern{
		Template: b.MustBuild(s, g, arc(sv, vg), arc(view)),
		Rule: rule(template.ForeshadowingLoop, func(inst *rewrite.CycleInstance, gr *dungeon.Graph, _ *dungeon.Allocator) error {
			return rules.Tag(gr, inst, v, dungeon.NodeTag{Kind: dungeon.TagVista})
		}),
	}
}

// One arc drops the player through a one-way passage.
func blockedRetreat() Pattern {
	b := template.NewBuilder(template.BlockedRetreat)
	s := b.AddNode(dungeon.KindStart, "start")
	g := b.AddNode(dungeon.KindGoal, "goal")
	x := b.AddNode(dungeon.KindNormal, "drop")
	y := b.AddNode(dungeon.KindNormal, "b")
	sx := b.AddEdge(s, x, dungeon.TraversalOneWay)
	xg := b.AddEdge(x, g, dungeon.TraversalNormal)
	sy := b.AddEdge(s, y, dungeon.TraversalNormal)
	yg := b.AddEdge(y, g, dungeon.TraversalNormal)
	b.AddInsertion(xg)
	b.AddInsertion(sy)
	return Pattern{Template: b.MustBuild(s, g, arc(sx, xg), arc(sy, yg))}
}
