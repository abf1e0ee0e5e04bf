// Package credentials manages the credentials bucket: one blob per username
// whose content is that user's password hash. Blob existence doubles as the
// "username taken" check.
package credentials

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/common"
)

const contentType = "text/plain"

// Store holds credential blobs. Conflicts and verification failures are
// business outcomes and come back as booleans; only structural storage
// failures are returned as errors.
type Store struct {
	blobs  blobstore.Store
	bucket string
}

func NewStore(blobs blobstore.Store, bucket string) *Store {
	return &Store{blobs: blobs, bucket: bucket}
}

// Exists reports whether a credential blob exists for username, which is
// the system-wide "username taken" check.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	return s.blobs.Exists(ctx, s.bucket, username)
}

// Create stores passwordHash under username. Returns false if a credential
// blob for username already exists; existing credentials are never
// overwritten by Create.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (bool, error) {
	exists, err := s.blobs.Exists(ctx, s.bucket, username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.blobs.Put(ctx, s.bucket, username, []byte(passwordHash), contentType); err != nil {
		return false, err
	}
	return true, nil
}

// Verify reports whether the stored hash for username equals passwordHash.
// An unknown username verifies as false, not as an error.
func (s *Store) Verify(ctx context.Context, username, passwordHash string) (bool, error) {
	stored, err := s.blobs.Get(ctx, s.bucket, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return subtle.ConstantTimeCompare(stored, []byte(passwordHash)) == 1, nil
}

// Update replaces the stored hash with newHash if the current stored hash
// equals oldHash. Returns false on mismatch or unknown username.
func (s *Store) Update(ctx context.Context, username, oldHash, newHash string) (bool, error) {
	ok, err := s.Verify(ctx, username, oldHash)
	if err != nil || !ok {
		return false, err
	}
	if err := s.blobs.Put(ctx, s.bucket, username, []byte(newHash), contentType); err != nil {
		return false, err
	}
	return true, nil
}

// Rename moves the credential blob from oldName to newName. Returns false
// if newName is already taken. The copy and the delete are two separate
// store calls; a crash between them leaves both blobs present.
func (s *Store) Rename(ctx context.Context, oldName, newName string) (bool, error) {
	exists, err := s.blobs.Exists(ctx, s.bucket, newName)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.blobs.Copy(ctx, s.bucket, oldName, newName); err != nil {
		return false, err
	}
	if err := s.blobs.Delete(ctx, s.bucket, oldName); err != nil {
		return false, err
	}
	return true, nil
}
