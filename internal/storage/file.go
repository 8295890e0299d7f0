package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/scene"
)

const boardExt = ".json"

// FileStore keeps each board as a JSON file in a directory.
type FileStore struct {
	dir string
	log *zap.Logger
}

func NewFileStore(dir string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{dir: dir, log: log}
}

// Path returns the file a board is saved to.
func (s *FileStore) Path(name string) string {
	name = fileName(name)
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}

// fileName appends the board extension, replacing one typed in any case.
func fileName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), boardExt) {
		name = name[:len(name)-len(boardExt)]
	}
	return name + boardExt
}

func (s *FileStore) Save(ctx context.Context, name string, snap scene.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return apperr.Internal("create save directory", err)
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return apperr.Internal("encode board", err)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".board-*")
	if err != nil {
		return apperr.Internal("save board "+name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperr.Internal("save board "+name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperr.Internal("save board "+name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return apperr.Internal("save board "+name, err)
	}
	s.log.Debug("board saved", zap.String("path", path))
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (scene.Snapshot, error) {
	var snap scene.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	if err := checkName(name); err != nil {
		return snap, err
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return snap, notFound(name)
	}
	if err != nil {
		return snap, apperr.Internal("load board "+name, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return scene.Snapshot{}, apperr.Internal("decode board "+name, err)
	}
	return snap, nil
}

// List returns the names of the boards in the directory, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := s.dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		n := entry.Name()
		if entry.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, boardExt) {
			continue
		}
		names = append(names, n[:len(n)-len(boardExt)])
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(name)
	}
	return err
}

func (s *FileStore) Close() error {
	return nil
}
