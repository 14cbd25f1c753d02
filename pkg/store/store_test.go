package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template/builtin"
)

func newRecord(t *testing.T, seed int64) *Record {
	t.Helper()
	lib, rr := builtin.Library()
	res, err := generator.New(lib, selector.NewDefault(lib), rr, nil).
		Run(generator.Settings{Seed: seed, MaxDepth: 1, MaxInsertionsTotal: 4})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	rec, err := NewRecord(res)
	if err != nil {
		t.Fatalf("NewRecord() error: %v", err)
	}
	return rec
}

func TestNewRecord(t *testing.T) {
	a := newRecord(t, 4)
	b := newRecord(t, 4)

	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", a.ID, err)
	}
	if err := errs.ValidateRunID(a.ID); err != nil {
		t.Errorf("ValidateRunID(%q) = %v", a.ID, err)
	}
	if a.ID == b.ID {
		t.Error("two records share an id")
	}
	if a.Fingerprint != b.Fingerprint {
		t.Errorf("same seed: fingerprints %s and %s differ", a.Fingerprint, b.Fingerprint)
	}
	if a.Document.Settings.Seed != 4 {
		t.Errorf("Document.Settings.Seed = %d, want 4", a.Document.Settings.Seed)
	}
}

func TestRecord_Result(t *testing.T) {
	rec := newRecord(t, 9)
	res, err := rec.Result()
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	if res.Stats != rec.Document.Stats {
		t.Errorf("Stats = %+v, want %+v", res.Stats, rec.Document.Stats)
	}
}

// backends lists the stores that run without external services.
func backends(t *testing.T) map[string]Store {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			rec := newRecord(t, 1)

			if err := st.Save(ctx, rec); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := st.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Fingerprint != rec.Fingerprint || got.Document.Overall != rec.Document.Overall {
				t.Errorf("Get() = %+v, want %+v", got.Summary(), rec.Summary())
			}

			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := st.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete() error = %v, want %v", err, ErrNotFound)
			}
			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Errorf("Delete(missing) error = %v, want nil", err)
			}
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			var ids []string
			for i := range 3 {
				rec := newRecord(t, int64(i))
				rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
				if err := st.Save(ctx, rec); err != nil {
					t.Fatalf("Save() error: %v", err)
				}
				ids = append(ids, rec.ID)
			}

			all, err := st.List(ctx, 0)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("len(List()) = %d, want 3", len(all))
			}
			for i, want := range []string{ids[2], ids[1], ids[0]} {
				if all[i].ID != want {
					t.Errorf("List()[%d].ID = %s, want %s", i, all[i].ID, want)
				}
			}

			two, _ := st.List(ctx, 2)
			if len(two) != 2 {
				t.Errorf("len(List(2)) = %d, want 2", len(two))
			}
		})
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	rec := newRecord(t, 2)
	st.Save(ctx, rec)

	got, _ := st.Get(ctx, rec.ID)
	got.Fingerprint = "changed"

	again, _ := st.Get(ctx, rec.ID)
	if again.Fingerprint != rec.Fingerprint {
		t.Error("mutating a fetched record changed the stored one")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"default", Options{}, "*store.MemoryStore", false},
		{"memory", Options{Backend: BackendMemory}, "*store.MemoryStore", false},
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, "*store.FileStore", false},
		{"mongo bad uri", Options{Backend: BackendMongo, Mongo: MongoOptions{URI: "http://x"}}, "", true},
		{"unknown", Options{Backend: "s3"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer st.Close()
			if got := fmt.Sprintf("%T", st); got != tt.want {
				t.Errorf("Open() type = %s, want %s", got, tt.want)
			}
		})
	}

	_, err := Open(ctx, Options{Backend: "s3"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(s3) error = %v, want %v", err, ErrUnknownBackend)
	}
}
