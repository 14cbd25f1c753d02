// Package generator runs the recursive graph grammar that grows a dungeon.
//
// A run stamps one root pattern into an empty graph and then repeatedly
// replaces seam edges with nested patterns until the queue of insertion
// points is empty or a budget is spent:
//
//	lib, rr := builtin.Library()
//	d := generator.New(lib, selector.NewDefault(lib), rr, nil)
//	res, err := d.Run(generator.Settings{Seed: 7, MaxDepth: 2, MaxInsertionsTotal: 10})
//
// Runs are synchronous and self-contained: each owns its allocator, graph
// and random source, so a Driver may be used for many runs (even
// concurrently, provided the library, selector and rules are not mutated).
//
// # Determinism
//
// The random source is a PCG seeded from Settings.Seed and the pending queue
// is FIFO. Two runs with the same seed, library, selector and rules produce
// identical results, down to every id and the order of Replacements.
//
// # Budgets
//
// An insertion point deeper than MaxDepth, or one whose pattern would exceed
// MaxNodes, is discarded: its seam stays a plain edge. The loop stops once
// MaxInsertionsTotal splices have been made. Neither case is an error.
package generator

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclegen/pkg/dungeon"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/rewrite"
	"github.com/matzehuels/cyclegen/pkg/rules"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template"
)

// InsertionEvent records one splice. Events are created once and never
// modified; together they form the derivation tree of the dungeon.
type InsertionEvent struct {
	// Insertion is the point that was consumed.
	Insertion rewrite.InsertionPoint
	// ParentFrom and ParentTo are the seam's endpoints before removal.
	ParentFrom dungeon.NodeID
	ParentTo   dungeon.NodeID
	// Instance is the fragment that replaced the seam.
	Instance *rewrite.CycleInstance
	// Type is the pattern stamped.
	Type template.CycleType
	// Attachment names the boundary edges that replaced the seam.
	Attachment rewrite.Attachment
}

// Stats summarises a run. It holds no timings so results stay comparable.
type Stats struct {
	Nodes      int `json:"nodes" bson:"nodes"`
	Edges      int `json:"edges" bson:"edges"`
	Insertions int `json:"insertions" bson:"insertions"`
	Discarded  int `json:"discarded" bson:"discarded"`
	Unexpanded int `json:"unexpanded" bson:"unexpanded"` // within MaxDepth but left queued when the insertion budget ran out
	MaxDepth   int `json:"max_depth" bson:"max_depth"`   // deepest expanded insertion point
}

// GenerationResult is the output of one run. Consumers must treat it as
// read-only.
type GenerationResult struct {
	Settings        Settings
	Graph           *dungeon.Graph
	OverallType     template.CycleType
	OverallFragment *rewrite.CycleInstance
	Replacements    []InsertionEvent
	Stats           Stats
}

// Driver wires a library, a selector and a rule registry into runs.
type Driver struct {
	lib    template.Library
	sel    selector.Selector
	rules  *rules.Registry
	logger *log.Logger
}

// New creates a driver. rr may be nil when no pattern needs a rule. A nil
// logger discards output.
func New(lib template.Library, sel selector.Selector, rr *rules.Registry, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{lib: lib, sel: sel, rules: rr, logger: logger}
}

// Run performs one generation. Errors are configuration errors (invalid
// settings, an unregistered pattern type) or template defects; budget
// exhaustion is never an error.
func (d *Driver) Run(s Settings) (*GenerationResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seed := uint64(s.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	eng := rewrite.New(dungeon.New(), dungeon.NewAllocator())

	overall := d.sel.SelectOverall(rng)
	tmpl, err := d.lib.Get(overall)
	if err != nil {
		return nil, err
	}
	root, err := eng.Instantiate(tmpl, 0)
	if err != nil {
		return nil, err
	}
	if err := d.rules.Apply(overall, root, eng.Graph(), eng.Allocator()); err != nil {
		return nil, err
	}

	res := &GenerationResult{
		Settings:        s,
		Graph:           eng.Graph(),
		OverallType:     overall,
		OverallFragment: root,
	}
	queue := append([]rewrite.InsertionPoint(nil), root.Insertions...)

	for len(queue) > 0 && res.Stats.Insertions < s.MaxInsertionsTotal {
		ip := queue[0]
		queue = queue[1:]

		if ip.Depth > s.MaxDepth {
			res.Stats.Discarded++
			d.logger.Debug("discarded", "insertion", ip.ID, "depth", ip.Depth, "reason", "depth")
			continue
		}

		ct := d.sel.SelectSub(rng, ip.Depth)
		sub, err := d.lib.Get(ct)
		if err != nil {
			return nil, err
		}
		if s.MaxNodes > 0 && eng.Graph().NodeCount()+sub.NodeCount() > s.MaxNodes {
			res.Stats.Discarded++
			d.logger.Debug("discarded", "insertion", ip.ID, "depth", ip.Depth, "reason", "nodes")
			continue
		}

		ev, err := d.expand(eng, ip, sub)
		if err != nil {
			return nil, err
		}
		res.Replacements = append(res.Replacements, ev)
		queue = append(queue, ev.Instance.Insertions...)
		res.Stats.Insertions++
		res.Stats.MaxDepth = max(res.Stats.MaxDepth, ip.Depth)

		d.logger.Debug("spliced",
			"type", ct,
			"insertion", ip.ID,
			"depth", ip.Depth,
			"seam", ip.SeamEdge,
			"from", ev.ParentFrom,
			"to", ev.ParentTo)
	}

	if err := eng.Graph().Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "generated graph is inconsistent")
	}

	for _, ip := range queue {
		if ip.Depth <= s.MaxDepth {
			res.Stats.Unexpanded++
		}
	}
	res.Stats.Nodes = eng.Graph().NodeCount()
	res.Stats.Edges = eng.Graph().EdgeCount()

	d.logger.Info("generated",
		"overall", overall,
		"nodes", res.Stats.Nodes,
		"edges", res.Stats.Edges,
		"insertions", res.Stats.Insertions,
		"discarded", res.Stats.Discarded)
	return res, nil
}

// expand stamps tmpl one level below ip and splices it over ip's seam.
func (d *Driver) expand(eng *rewrite.Engine, ip rewrite.InsertionPoint, tmpl *template.CycleTemplate) (InsertionEvent, error) {
	seam, ok := eng.Graph().Edge(ip.SeamEdge)
	if !ok {
		return InsertionEvent{}, errs.New(errs.ErrCodeEdgeNotFound, "insertion %s: seam %s not in graph", ip.ID, ip.SeamEdge)
	}
	from, to := seam.From, seam.To

	inst, err := eng.Instantiate(tmpl, ip.Depth+1)
	if err != nil {
		return InsertionEvent{}, err
	}
	att, err := eng.Splice(ip.SeamEdge, inst)
	if err != nil {
		return InsertionEvent{}, err
	}
	if err := d.rules.Apply(tmpl.Type(), inst, eng.Graph(), eng.Allocator()); err != nil {
		return InsertionEvent{}, err
	}
	return InsertionEvent{
		Insertion:  ip,
		ParentFrom: from,
		ParentTo:   to,
		Instance:   inst,
		Type:       tmpl.Type(),
		Attachment: att,
	}, nil
}
