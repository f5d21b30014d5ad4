// Package shardstore provides the ShardStore abstraction used to persist
// and retrieve k-mer shard files across the
// split/merge boundary, with a local-disk implementation for the common
// case and an S3-backed implementation for clusters that stage shards in
// object storage between split and merge workers.
package shardstore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// ShardStore persists and retrieves named byte blobs (the k-mer shard
// files) by a caller-chosen key.
type ShardStore interface {
	// Create opens key for writing; the caller must Close the returned
	// writer. Any existing content at key is replaced.
	Create(ctx context.Context, key string) (io.WriteCloser, error)
	// Open opens key for reading; the caller must Close the returned
	// reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes key. Removing a nonexistent key is not an error.
	Remove(ctx context.Context, key string) error
}

// LocalStore is a ShardStore backed by a local-disk directory.
type LocalStore struct {
	Dir string
}

// NewLocalStore returns a LocalStore rooted at dir, creating it if
// necessary.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, "shardstore: creating %s", dir)
	}
	return &LocalStore{Dir: dir}, nil
}

// Create implements ShardStore.
func (s *LocalStore) Create(_ context.Context, key string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(s.Dir, key))
}

// Open implements ShardStore.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, key))
}

// Remove implements ShardStore.
func (s *LocalStore) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.Dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
