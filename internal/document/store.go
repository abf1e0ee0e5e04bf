// Package document provides read-modify-write access to JSON documents
// stored as single blobs. Each document is a lightweight table: the whole
// blob is rewritten on every mutation, so the unit of atomicity is one
// document overwrite (last writer wins).
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/common"
)

// readAttempts bounds retries of idempotent reads on transient storage
// failures. Writes are never retried: without an idempotency key a replayed
// overwrite could resurrect stale state.
const readAttempts = 3

// Store reads and writes JSON documents in a single bucket.
//
// Update serializes mutations per document name within this process. That
// closes the in-process read-modify-write race; concurrent writers in other
// processes still race with last-writer-wins semantics, which callers must
// accept (or add a store-side conditional write).
type Store struct {
	blobs  blobstore.Store
	bucket string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(blobs blobstore.Store, bucket string) *Store {
	return &Store{
		blobs:  blobs,
		bucket: bucket,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Read fetches the named document and unmarshals it into v. Returns
// common.ErrorNotFound if the blob is absent and common.ErrorCorruptData if
// the content is not valid JSON.
func (s *Store) Read(ctx context.Context, name string, v any) error {
	var data []byte
	var err error

	for attempt := 0; attempt < readAttempts; attempt++ {
		data, err = s.blobs.Get(ctx, s.bucket, name)
		if err == nil || !errors.Is(err, common.ErrorStorage) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: document %s", common.ErrorNotFound, name)
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: document %s: %v", common.ErrorCorruptData, name, err)
	}
	return nil
}

// Write serializes v and overwrites the named document entirely.
func (s *Store) Write(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", name, err)
	}
	return s.blobs.Put(ctx, s.bucket, name, data, "application/json")
}

// Update reads the named document into v, applies mutate, and writes v
// back. v must be a pointer to the document's Go representation; mutate
// edits it in place. The read and write hold the per-document lock.
func (s *Store) Update(ctx context.Context, name string, v any, mutate func() error) error {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	if err := s.Read(ctx, name, v); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return s.Write(ctx, name, v)
}
