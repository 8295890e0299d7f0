// Package storage persists board snapshots by name.
package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/scene"
)

// Store saves and loads named board snapshots. Load reports a NotFound
// error, together with an empty snapshot, for a name that was never saved.
type Store interface {
	Save(ctx context.Context, name string, snap scene.Snapshot) error
	Load(ctx context.Context, name string) (scene.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

const (
	KindBolt = "bolt"
	KindFile = "file"
)

type Options struct {
	// Kind selects the backend, KindBolt or KindFile.
	Kind string
	// DataFile is the bbolt database path.
	DataFile string
	// Directory holds the JSON files of the file backend. Empty means the
	// working directory.
	Directory string
	Logger    *zap.Logger
}

func Open(opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "storage"), zap.String("backend", opts.Kind))

	switch opts.Kind {
	case KindBolt:
		s, err := OpenBolt(opts.DataFile, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindFile, "":
		return NewFileStore(opts.Directory, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid board name %q", name)
	}
	return nil
}

func notFound(name string) error {
	return apperr.NotFound("board %s", name)
}
