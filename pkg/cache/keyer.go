package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped when the cached result encoding changes.
const keyVersion = "v1"

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest builds "kind:version:sha256(parts)". parts are JSON encoded, so
// struct field order fixes the key layout.
func digest(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + keyVersion + ":" + Hash(data)
}

// ResultKeyOpts holds every input that shapes a generated result.
type ResultKeyOpts struct {
	Seed               int64    `json:"seed"`
	MaxDepth           int      `json:"max_depth"`
	MaxInsertionsTotal int      `json:"max_insertions_total"`
	MaxNodes           int      `json:"max_nodes"`
	Overall            string   `json:"overall,omitempty"`
	Types              []string `json:"types"`

	// Library is a content hash of the pattern shapes, so replacing a
	// pattern under an existing type name changes the key.
	Library string `json:"library,omitempty"`
}

// RenderKeyOpts holds the inputs that shape a rendered export.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Clusters bool    `json:"clusters"`
	Labels   bool    `json:"labels"`
	Scale    float64 `json:"scale,omitempty"` // png only
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key of a generated result.
	ResultKey(opts ResultKeyOpts) string

	// RenderKey returns the key of an export of the result with the given
	// content hash.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(opts ResultKeyOpts) string {
	return digest("result", opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return digest("render", resultHash, opts)
}
