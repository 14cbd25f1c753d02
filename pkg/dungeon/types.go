package dungeon

import "slices"

// NodeKind distinguishes the run's entrance and goal from ordinary rooms.
type NodeKind int

const (
	// KindNormal is an ordinary room.
	KindNormal NodeKind = iota
	// KindStart is the entrance of the dungeon (or of a template, before splicing).
	KindStart
	// KindGoal is the final room of the dungeon (or of a template, before splicing).
	KindGoal
)

var nodeKindNames = [...]string{"normal", "start", "goal"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, bool) {
	i := slices.Index(nodeKindNames[:], s)
	if i < 0 {
		return KindNormal, false
	}
	return NodeKind(i), true
}

// Traversal describes how an edge may be crossed. Consumers decide whether a
// Normal edge is walkable in both directions; the graph itself is directed.
type Traversal int

const (
	// TraversalNormal is an ordinary passage.
	TraversalNormal Traversal = iota
	// TraversalOneWay can only be crossed From -> To.
	TraversalOneWay
	// TraversalSightlineBlocked is a line of sight (window, chasm) that
	// cannot be walked.
	TraversalSightlineBlocked
)

var traversalNames = [...]string{"normal", "one_way", "sightline_blocked"}

func (t Traversal) String() string {
	if int(t) < len(traversalNames) {
		return traversalNames[t]
	}
	return "unknown"
}

// ParseTraversal is the inverse of Traversal.String.
func ParseTraversal(s string) (Traversal, bool) {
	i := slices.Index(traversalNames[:], s)
	if i < 0 {
		return TraversalNormal, false
	}
	return Traversal(i), true
}

// GateKind is the nature of an edge restriction.
type GateKind int

const (
	// GateLock opens with one or more keys.
	GateLock GateKind = iota
	// GateBarrier is a non-key obstacle (rubble, secret wall).
	GateBarrier
)

var gateKindNames = [...]string{"lock", "barrier"}

func (k GateKind) String() string {
	if int(k) < len(gateKindNames) {
		return gateKindNames[k]
	}
	return "unknown"
}

// ParseGateKind is the inverse of GateKind.String.
func ParseGateKind(s string) (GateKind, bool) {
	i := slices.Index(gateKindNames[:], s)
	if i < 0 {
		return GateLock, false
	}
	return GateKind(i), true
}

// GateStrength tells consumers whether a gate may be bypassed.
type GateStrength int

const (
	// StrengthSoft gates can be bypassed with effort.
	StrengthSoft GateStrength = iota
	// StrengthHard gates cannot be bypassed.
	StrengthHard
)

var gateStrengthNames = [...]string{"soft", "hard"}

func (s GateStrength) String() string {
	if int(s) < len(gateStrengthNames) {
		return gateStrengthNames[s]
	}
	return "unknown"
}

// ParseGateStrength is the inverse of GateStrength.String.
func ParseGateStrength(s string) (GateStrength, bool) {
	i := slices.Index(gateStrengthNames[:], s)
	if i < 0 {
		return StrengthSoft, false
	}
	return GateStrength(i), true
}

// TagKind is the semantic category of a NodeTag.
type TagKind int

const (
	// TagKey marks a room that grants the key stored in NodeTag.Data.
	TagKey TagKind = iota
	// TagLockHint marks the room in front of a locked door.
	TagLockHint
	// TagDanger marks a hazardous room.
	TagDanger
	// TagSecret marks a room holding a hidden passage.
	TagSecret
	// TagVista marks a room overlooking a later part of the dungeon.
	TagVista
)

var tagKindNames = [...]string{"key", "lock_hint", "danger", "secret", "vista"}

func (k TagKind) String() string {
	if int(k) < len(tagKindNames) {
		return tagKindNames[k]
	}
	return "unknown"
}

// ParseTagKind is the inverse of TagKind.String.
func ParseTagKind(s string) (TagKind, bool) {
	i := slices.Index(tagKindNames[:], s)
	if i < 0 {
		return TagKey, false
	}
	return TagKind(i), true
}

// NodeTag is a semantic annotation on a room, e.g. Key(3) or LockHint.
type NodeTag struct {
	Kind TagKind
	Data int
}

// KeyTag returns the tag marking a room as granting key k.
func KeyTag(k KeyID) NodeTag { return NodeTag{Kind: TagKey, Data: int(k)} }

// RoomNode is a room of the dungeon.
type RoomNode struct {
	ID    NodeID
	Kind  NodeKind
	Label string // optional, for debugging and rendering
	Tags  []NodeTag
}

// HasTag reports whether the room carries tag.
func (n *RoomNode) HasTag(tag NodeTag) bool { return slices.Contains(n.Tags, tag) }

// AddTag adds tag unless the room already carries it.
func (n *RoomNode) AddTag(tag NodeTag) {
	if !n.HasTag(tag) {
		n.Tags = append(n.Tags, tag)
	}
}

// EdgeGate restricts traversal of an edge. RequiredKeys takes priority over
// RequiredKey when non-empty.
type EdgeGate struct {
	ID           GateID
	Kind         GateKind
	Strength     GateStrength
	RequiredKey  KeyID
	RequiredKeys []KeyID
}

// IsMultiKey reports whether the gate requires a set of keys.
func (g *EdgeGate) IsMultiKey() bool { return len(g.RequiredKeys) > 0 }

// Keys returns the keys needed to open the gate, or nil for a keyless barrier.
func (g *EdgeGate) Keys() []KeyID {
	if g.IsMultiKey() {
		return g.RequiredKeys
	}
	if g.RequiredKey != 0 {
		return []KeyID{g.RequiredKey}
	}
	return nil
}

// clone returns a deep copy so graphs never alias gate key slices.
func (g *EdgeGate) clone() *EdgeGate {
	if g == nil {
		return nil
	}
	c := *g
	c.RequiredKeys = slices.Clone(g.RequiredKeys)
	return &c
}

// RoomEdge is a directed connection between two rooms.
type RoomEdge struct {
	ID        EdgeID
	From      NodeID
	To        NodeID
	Traversal Traversal
	Gate      *EdgeGate // nil when ungated
}
