package iocache

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	bolt "go.etcd.io/bbolt"
)

// boltHeaderSize is the version (uint32) plus timestamp (int64) prefix of every value.
const boltHeaderSize = 12

// BoltStore is a single-file CacheStore backed by bbolt.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	path   string
}

var _ contract.CacheStore = &BoltStore{} // Compile-time check

// NewBoltStore opens (or creates) the bbolt file at path. An empty path
// selects the default stats file in the home directory.
func NewBoltStore(bucket, path string) (*BoltStore, error) {
	if err := validateTableName(bucket); err != nil {
		return nil, err
	}
	if path == "" {
		path = contract.GetBoltFilePath()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache at %q: %w. Ensure the directory is writable and no other process holds the file", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return &BoltStore{db: db, bucket: []byte(bucket), path: path}, nil
}

// Get retrieves a value by key. A missing key returns sql.ErrNoRows so callers
// treat every backend the same way.
func (bs *BoltStore) Get(key string) ([]byte, int, int64, error) {
	var (
		value   []byte
		version int
		ts      int64
	)
	err := bs.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bs.bucket).Get([]byte(key))
		if raw == nil {
			return sql.ErrNoRows
		}
		if len(raw) < boltHeaderSize {
			return fmt.Errorf("corrupt bolt entry for key %q", key)
		}
		version = int(binary.BigEndian.Uint32(raw[0:4]))
		ts = int64(binary.BigEndian.Uint64(raw[4:12]))
		// Bytes returned by bolt are only valid inside the transaction.
		value = append([]byte(nil), raw[boltHeaderSize:]...)
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (bs *BoltStore) Set(key string, value []byte, version int, timestamp int64) error {
	buf := make([]byte, boltHeaderSize+len(value))
	binary.BigEndian.PutUint32(buf[0:4], uint32(version))
	binary.BigEndian.PutUint64(buf[4:12], uint64(timestamp))
	copy(buf[boltHeaderSize:], value)
	return bs.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Put([]byte(key), buf)
	})
}

// GetStatus returns entry counts, the timestamp range and the file size.
func (bs *BoltStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.BoltBackend), Connected: bs.db != nil}
	var newest, oldest int64
	err := bs.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).ForEach(func(_, v []byte) error {
			if len(v) < boltHeaderSize {
				return nil
			}
			ts := int64(binary.BigEndian.Uint64(v[4:12]))
			if status.TotalEntries == 0 || ts > newest {
				newest = ts
			}
			if status.TotalEntries == 0 || ts < oldest {
				oldest = ts
			}
			status.TotalEntries++
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan bolt bucket: %w", err)
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(newest, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	if info, err := os.Stat(bs.path); err == nil {
		status.TableSizeBytes = info.Size()
	}
	return status, nil
}

// Close closes the bolt file.
func (bs *BoltStore) Close() error {
	if bs.db != nil {
		return bs.db.Close()
	}
	return nil
}
