// Package kv wraps go.etcd.io/bbolt as the embedded transactional KV engine
// spec.md §5 describes: a single-writer/multi-reader environment holding
// the main space (M) and update space (U) as separate named buckets, each
// update applied inside one ACID transaction (grounded on
// cuemby-warren/pkg/storage/boltdb.go's bucket-per-concern layout).
package kv

import (
	"fmt"

	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	bolt "go.etcd.io/bbolt"
)

// Bucket names. Main-space buckets (M) hold the current committed index;
// update-space buckets (U) hold the append-only update log and its
// results, per spec.md §6.
var (
	BucketMain                  = []byte("main")
	BucketPostingsLists         = []byte("postings-lists")
	BucketDocumentsFields       = []byte("documents-fields")
	BucketDocumentsFieldsCounts = []byte("documents-fields-counts")
	BucketDocsWords             = []byte("docs-words")
	BucketPrefixDocumentsCache  = []byte("prefix-documents-cache")
	BucketPrefixPostingsCache   = []byte("prefix-postings-lists-cache")
	BucketFacets                = []byte("facets")
	BucketUpdates               = []byte("updates")
	BucketUpdatesResults        = []byte("updates-results")
	BucketSynonyms              = []byte("synonyms")
)

// allBuckets lists every named sub-database the environment creates on
// open, in the order spec.md §6 lists them.
var allBuckets = [][]byte{
	BucketMain,
	BucketPostingsLists,
	BucketDocumentsFields,
	BucketDocumentsFieldsCounts,
	BucketDocsWords,
	BucketPrefixDocumentsCache,
	BucketPrefixPostingsCache,
	BucketFacets,
	BucketUpdates,
	BucketUpdatesResults,
	BucketSynonyms,
}

// Env is the opened bbolt environment backing one index.
type Env struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if absent) the bbolt file at path and ensures every
// named bucket exists.
func Open(path string) (*Env, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, internalerrors.NewStorageError("open environment", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, internalerrors.NewStorageError("initialize buckets", err)
	}

	return &Env{db: db, path: path}, nil
}

// Close closes the environment.
func (e *Env) Close() error {
	if err := e.db.Close(); err != nil {
		return internalerrors.NewStorageError("close environment", err)
	}
	return nil
}

// Path returns the on-disk file path the environment was opened with.
func (e *Env) Path() string { return e.path }

// View runs fn inside a read-only transaction. Multiple Views may run
// concurrently with each other and with a single in-flight Update
// (bbolt's MVCC model), matching spec.md §5's concurrency model.
func (e *Env) View(fn func(tx *Tx) error) error {
	err := e.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
	if err != nil {
		return internalerrors.NewStorageError("view transaction", err)
	}
	return nil
}

// Update runs fn inside a read-write transaction. Only one Update may be
// in flight at a time; bbolt serializes writers. An error returned by fn
// rolls the transaction back and is returned as is; only a failure of the
// transaction itself is wrapped as a StorageError.
func (e *Env) Update(fn func(tx *Tx) error) error {
	var fnErr error
	err := e.db.Update(func(btx *bolt.Tx) error {
		fnErr = fn(&Tx{btx: btx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return internalerrors.NewStorageError("update transaction", err)
	}
	return nil
}

// Tx wraps a bbolt transaction with typed bucket accessors.
type Tx struct {
	btx *bolt.Tx
}

// Bucket returns the named bucket, which must be one of the buckets Open
// creates. Returns nil only if called against a closed/invalid transaction
// or an unrecognized name, which callers should treat as a programmer
// error.
func (t *Tx) Bucket(name []byte) *bolt.Bucket {
	return t.btx.Bucket(name)
}

// Writable reports whether the underlying transaction allows mutation.
func (t *Tx) Writable() bool { return t.btx.Writable() }
