// Package store archives generation results so they can be fetched again by
// id.
//
// A run archive differs from the result cache in pkg/cache: cache entries
// are keyed by their inputs and may vanish at any time, while archived runs
// get a random id at save time and stay until deleted. The HTTP API hands
// these ids to clients (GET /runs/{id}).
//
// Backends:
//   - memory: In-process map for tests and single-instance servers
//   - file: JSON files in a directory, used by the CLI
//   - mongo: MongoDB collection for shared deployments
//
// # Usage
//
//	st, err := store.Open(ctx, store.Options{Backend: store.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec, err := store.NewRecord(res)
//	if err != nil {
//	    return err
//	}
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//	fmt.Println("archived as", rec.ID)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no run has the requested id.
	ErrNotFound = errors.New("run not found")

	// ErrUnknownBackend is returned by [Open] for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// DefaultListLimit bounds List when the caller passes a limit <= 0.
const DefaultListLimit = 50

// Record is one archived run.
type Record struct {
	ID          string         `json:"id" bson:"_id"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	Fingerprint string         `json:"fingerprint" bson:"fingerprint"`
	Document    graph.Document `json:"document" bson:"document"`
}

// Summary is the listing view of a record: everything but the graph.
type Summary struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	Fingerprint string             `json:"fingerprint"`
	Overall     string             `json:"overall"`
	Settings    generator.Settings `json:"settings"`
	Stats       generator.Stats    `json:"stats"`
}

// Summary returns the listing view of r.
func (r *Record) Summary() Summary {
	return Summary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Fingerprint: r.Fingerprint,
		Overall:     r.Document.Overall,
		Settings:    r.Document.Settings,
		Stats:       r.Document.Stats,
	}
}

// Result rebuilds the generation result stored in r.
func (r *Record) Result() (*generator.GenerationResult, error) {
	return graph.ToResult(r.Document)
}

// Store is the interface for run archive backends.
type Store interface {
	// Save stores a record. Saving an existing id replaces it.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by id. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewRecord wraps a result for archiving under a fresh random id.
func NewRecord(res *generator.GenerationResult) (*Record, error) {
	doc := graph.FromResult(res)
	fp, err := graph.Fingerprint(doc)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Fingerprint: fp.String(),
		Document:    doc,
	}, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
