package graph

import (
	"github.com/matzehuels/cyclegen/pkg/generator"
)

// FormatVersion is bumped whenever the document layout changes incompatibly.
const FormatVersion = 1

// =============================================================================
// Document - Generation Result Serialization
// =============================================================================

// Document is the canonical serialization format for a generation result.
// Used for JSON files, API responses, caching and the run archive.
//
// The format is designed for round-trip fidelity: a result exported, read
// back and exported again produces identical bytes.
type Document struct {
	Version  int                `json:"version" bson:"version"`
	Settings generator.Settings `json:"settings" bson:"settings"`
	Overall  string             `json:"overall" bson:"overall"`
	Nodes    []Node             `json:"nodes" bson:"nodes"`
	Edges    []Edge             `json:"edges" bson:"edges"`
	Root     Fragment           `json:"root" bson:"root"`
	Events   []Event            `json:"events" bson:"events"`
	Stats    generator.Stats    `json:"stats" bson:"stats"`
}

// =============================================================================
// Node, Edge, Gate
// =============================================================================

// Node is a serialized room.
type Node struct {
	ID    int    `json:"id" bson:"id"`
	Kind  string `json:"kind" bson:"kind"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Tags  []Tag  `json:"tags,omitempty" bson:"tags,omitempty"`
}

// DisplayLabel returns the label if set, otherwise "n<id>".
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return nodeName(n.ID)
}

// Tag is a serialized semantic room tag.
type Tag struct {
	Kind string `json:"kind" bson:"kind"`
	Data int    `json:"data,omitempty" bson:"data,omitempty"`
}

// Edge is a serialized directed connection.
type Edge struct {
	ID        int    `json:"id" bson:"id"`
	From      int    `json:"from" bson:"from"`
	To        int    `json:"to" bson:"to"`
	Traversal string `json:"traversal" bson:"traversal"`
	Gate      *Gate  `json:"gate,omitempty" bson:"gate,omitempty"`
}

// Gate is a serialized edge gate.
type Gate struct {
	ID           int    `json:"id" bson:"id"`
	Kind         string `json:"kind" bson:"kind"`
	Strength     string `json:"strength" bson:"strength"`
	RequiredKey  int    `json:"required_key,omitempty" bson:"required_key,omitempty"`
	RequiredKeys []int  `json:"required_keys,omitempty" bson:"required_keys,omitempty"`
}

// =============================================================================
// Fragment, Insertion, Event - Derivation Tree
// =============================================================================

// Fragment is a serialized pattern instance. Nodes and Edges keep template
// declaration order, which is what makes local ids recoverable on import.
type Fragment struct {
	Type       string      `json:"type" bson:"type"`
	Depth      int         `json:"depth" bson:"depth"`
	Entry      int         `json:"entry" bson:"entry"`
	Exit       int         `json:"exit" bson:"exit"`
	Nodes      []int       `json:"nodes" bson:"nodes"`
	Edges      []int       `json:"edges" bson:"edges"`
	ArcA       []int       `json:"arc_a" bson:"arc_a"`
	ArcB       []int       `json:"arc_b" bson:"arc_b"`
	Insertions []Insertion `json:"insertions,omitempty" bson:"insertions,omitempty"`
}

// Insertion is a serialized insertion point.
type Insertion struct {
	ID    int `json:"id" bson:"id"`
	Seam  int `json:"seam" bson:"seam"`
	Depth int `json:"depth" bson:"depth"`
}

// Event is a serialized insertion event.
type Event struct {
	Insertion  Insertion `json:"insertion" bson:"insertion"`
	Type       string    `json:"type" bson:"type"`
	ParentFrom int       `json:"parent_from" bson:"parent_from"`
	ParentTo   int       `json:"parent_to" bson:"parent_to"`
	EntryEdge  int       `json:"entry_edge" bson:"entry_edge"`
	ExitEdge   int       `json:"exit_edge" bson:"exit_edge"`
	Fragment   Fragment  `json:"fragment" bson:"fragment"`
}
