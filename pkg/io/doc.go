// Package io provides JSON import and export for generation results and
// pattern files.
//
// # Results
//
// Results are written in the canonical document format defined by
// pkg/graph. Use [ExportJSON] to write a result to a file, or [WriteJSON] to
// write to any io.Writer:
//
//	err := io.ExportJSON(res, "dungeon.json")
//
// [ReadJSON] and [ImportJSON] rebuild the result, including the derivation
// tree and the local id lookups of every fragment. An exported result that
// is imported and exported again produces identical bytes.
//
// # Pattern Files
//
// Pattern files let users add cycle types without writing Go. Node and edge
// references are 1-based positions in the nodes and edges arrays, which is
// the order [template.Builder] assigns local ids in:
//
//	{
//	  "patterns": [{
//	    "type": "side_vault",
//	    "nodes": [
//	      {"kind": "start", "label": "start"},
//	      {"kind": "goal", "label": "goal"},
//	      {"kind": "normal", "label": "vault"}
//	    ],
//	    "edges": [
//	      {"from": 1, "to": 3},
//	      {"from": 3, "to": 2, "traversal": "one_way"},
//	      {"from": 1, "to": 2}
//	    ],
//	    "start": 1, "goal": 2,
//	    "arc_a": [1, 2], "arc_b": [3],
//	    "seams": [1]
//	  }]
//	}
//
// [ReadPatterns] and [ImportPatterns] build each template and reject any
// pattern whose arcs do not run from start to goal. [WritePatterns] produces
// the same format, so the built-in catalogue can be dumped as a starting
// point.
//
// Patterns loaded this way have no rule attached; they only shape topology.
package io
