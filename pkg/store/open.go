package store

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/cyclegen/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string // file backend
	Mongo   MongoOptions
}

// Open builds the store named by opts.Backend. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		if err := errs.ValidateMongoURI(opts.Mongo.URI); err != nil {
			return nil, err
		}
		s, err := NewMongoStore(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
