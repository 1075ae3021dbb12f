package storage

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelBlobs is a Blobs backed by a LevelDB database.
type LevelBlobs struct {
	db *leveldb.DB
}

// NewLevelBlobs creates or opens a LevelDB database at the specified path.
func NewLevelBlobs(path string) (*LevelBlobs, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot open leveldb %q: %w", path, err)
	}
	return &LevelBlobs{db: db}, nil
}

func (l *LevelBlobs) Put(key string, value []byte) error {
	return l.db.Put([]byte(key), value, nil)
}

func (l *LevelBlobs) Get(key string) ([]byte, error) {
	value, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return value, err
}

// Close closes the database, it must not be used afterwards.
func (l *LevelBlobs) Close() error { return l.db.Close() }
