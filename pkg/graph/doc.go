// Package graph provides the serialization format for generated dungeons.
//
// This package defines the canonical wire format for cyclegen results, used
// for JSON files, API responses, caching and the run archive.
//
// # Architecture
//
// The package sits at the boundary between the in-memory result and external
// formats:
//
//   - [Document]: Serialization type (this package)
//   - generator.GenerationResult: Internal result (graph, derivation tree, stats)
//
// Use [FromResult] and [ToResult] to convert between them.
//
// # Format
//
// Enumerations are written by name and every list is sorted by id, so an
// exported result is stable byte for byte:
//
//	{
//	  "version": 1,
//	  "settings": {"seed": 7, "max_depth": 2, "max_insertions_total": 10},
//	  "overall": "two_alternative_paths",
//	  "nodes": [{"id": 1, "kind": "start", "label": "start"}, ...],
//	  "edges": [{"id": 5, "from": 1, "to": 3, "traversal": "normal"}, ...],
//	  "root": {...},
//	  "events": [...],
//	  "stats": {...}
//	}
//
// Fragments keep their nodes and edges in pattern declaration order. Import
// relies on that to rebuild the local id lookups rules use.
//
// Common operations:
//
//	data, _ := graph.MarshalResult(res)       // Result → []byte
//	res, _ := graph.UnmarshalResult(data)     // []byte → Result
//	doc, _ := graph.UnmarshalDocument(data)   // []byte → Document
//	id, _ := graph.Fingerprint(doc)           // Document → UUID
//
// File and stream I/O lives in pkg/io.
package graph
