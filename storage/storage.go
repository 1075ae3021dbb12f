// Package storage provides the key-value blob stores used to persist a portfolio.
//
// A Blobs holds opaque values under string keys. Three backends exist:
// in memory (tests), one file per key in a directory, and a LevelDB database.
package storage

import (
	"fmt"
	"io/fs"
	"strings"
)

// ErrNotFound is returned by Get when a key has no value. It matches fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("key not found: %w", fs.ErrNotExist)

// Blobs is a key-value store of byte values.
type Blobs interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Kind names a Blobs backend.
type Kind string

// Available backends.
const (
	Memory  Kind = "memory"
	File    Kind = "file"
	LevelDB Kind = "leveldb"
)

// Kinds lists the available backends.
var Kinds = []Kind{File, LevelDB, Memory}

// ParseKind parses a backend name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown storage %q, want one of file, leveldb, memory", s)
}

// Open opens a backend rooted in dir. dir is ignored by the Memory backend.
func Open(kind Kind, dir string) (Blobs, error) {
	switch kind {
	case Memory:
		return NewMem(), nil
	case File:
		return NewFileBlobs(dir)
	case LevelDB:
		return NewLevelBlobs(dir)
	default:
		return nil, fmt.Errorf("unsupported storage %q", kind)
	}
}

// validKey rejects keys that cannot be used as a file name.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
