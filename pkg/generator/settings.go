package generator

import (
	errs "github.com/matzehuels/cyclegen/pkg/errors"
)

const (
	// DefaultSeed is the seed used when the caller does not pick one.
	DefaultSeed = int64(42)

	// DefaultMaxDepth is the deepest insertion depth that is still expanded.
	DefaultMaxDepth = 3

	// DefaultMaxInsertionsTotal caps the number of splices per run.
	DefaultMaxInsertionsTotal = 24

	// DefaultMaxNodes caps the room count. Settings.MaxNodes = 0 lifts the
	// cap for callers that set it explicitly.
	DefaultMaxNodes = 5000
)

// Settings bounds one generation run. The zero value is valid: it yields
// the root pattern alone.
type Settings struct {
	Seed               int64 `json:"seed" bson:"seed" toml:"seed"`
	MaxDepth           int   `json:"max_depth" bson:"max_depth" toml:"max_depth"`
	MaxInsertionsTotal int   `json:"max_insertions_total" bson:"max_insertions_total" toml:"max_insertions_total"`

	// MaxNodes discards any insertion whose pattern would push the room
	// count above it. 0 means unlimited.
	MaxNodes int `json:"max_nodes,omitempty" bson:"max_nodes,omitempty" toml:"max_nodes"`
}

// DefaultSettings returns the settings used by the CLI and HTTP API when
// nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		Seed:               DefaultSeed,
		MaxDepth:           DefaultMaxDepth,
		MaxInsertionsTotal: DefaultMaxInsertionsTotal,
		MaxNodes:           DefaultMaxNodes,
	}
}

// Validate rejects negative budgets.
func (s Settings) Validate() error {
	switch {
	case s.MaxDepth < 0:
		return errs.New(errs.ErrCodeInvalidSettings, "max depth must be >= 0, got %d", s.MaxDepth)
	case s.MaxInsertionsTotal < 0:
		return errs.New(errs.ErrCodeInvalidSettings, "max insertions must be >= 0, got %d", s.MaxInsertionsTotal)
	case s.MaxNodes < 0:
		return errs.New(errs.ErrCodeInvalidSettings, "max nodes must be >= 0, got %d", s.MaxNodes)
	}
	return nil
}
