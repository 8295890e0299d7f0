package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/scene"
)

const bucketBoards = "boards"

// BoltStore keeps every board as one JSON value in a bbolt database.
type BoltStore struct {
	db  *bolt.DB
	log *zap.Logger
}

func OpenBolt(path string, log *zap.Logger) (*BoltStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperr.Internal("create data directory", err)
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperr.Internal("open "+path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBoards))
		return err
	})
	if err != nil {
		db.Close()
		return nil, apperr.Internal("initialize boards bucket", err)
	}
	log.Info("opened board database", zap.String("path", path))
	return &BoltStore{db: db, log: log}, nil
}

func (s *BoltStore) Save(ctx context.Context, name string, snap scene.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return apperr.Internal("encode board", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBoards)).Put([]byte(name), data)
	})
	if err != nil {
		return apperr.Internal("save board "+name, err)
	}
	s.log.Debug("board saved", zap.String("name", name), zap.Int("bytes", len(data)))
	return nil
}

func (s *BoltStore) Load(ctx context.Context, name string) (scene.Snapshot, error) {
	var snap scene.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketBoards)).Get([]byte(name)); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return snap, apperr.Internal("load board "+name, err)
	}
	if data == nil {
		return snap, notFound(name)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return scene.Snapshot{}, apperr.Internal("decode board "+name, err)
	}
	return snap, nil
}

// List returns board names in key order.
func (s *BoltStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketBoards)).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	return names, err
}

func (s *BoltStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBoards))
		if b.Get([]byte(name)) == nil {
			return notFound(name)
		}
		return b.Delete([]byte(name))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
