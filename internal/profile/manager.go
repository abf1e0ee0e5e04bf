// Package profile manages profile pictures: assignment of a default at
// sign-up, replacement with user-uploaded images, and cleanup of the
// per-user blobs the defaults never need.
package profile

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/common"
	"github.com/teamawesome/wikistore/internal/users"
)

// secondaryDraw is the single value in [1, defaultDrawRange] that assigns
// the secondary default picture at sign-up. A cosmetic 1-in-20 easter egg,
// not a security-relevant draw.
const (
	defaultDrawRange = 20
	secondaryDraw    = 2
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

type Manager struct {
	blobs  blobstore.Store
	bucket string
	table  *users.Table

	// draw returns a uniform integer in [1, defaultDrawRange]; swapped out
	// in tests.
	draw func() int
}

func NewManager(blobs blobstore.Store, bucket string, table *users.Table) *Manager {
	return &Manager{
		blobs:  blobs,
		bucket: bucket,
		table:  table,
		draw:   func() int { return rand.IntN(defaultDrawRange) + 1 },
	}
}

// DefaultPicture picks the default sentinel assigned to a new account.
func (m *Manager) DefaultPicture() string {
	if m.draw() == secondaryDraw {
		return common.SecondaryDefaultProfilePicture
	}
	return common.DefaultProfilePicture
}

// Get returns the current profile picture blob name for username.
func (m *Manager) Get(ctx context.Context, username string) (string, error) {
	rec, err := m.table.Get(ctx, username)
	if err != nil {
		return "", err
	}
	return rec.ProfilePicture, nil
}

// Set replaces username's profile picture with the uploaded image. Returns
// false without side effects if the extension of originalFilename is not a
// supported image type. A previous custom picture blob is deleted; default
// sentinels are shared and never deleted.
func (m *Manager) Set(ctx context.Context, username string, data []byte, originalFilename string) (bool, error) {
	ext := extensionOf(originalFilename)
	if _, ok := allowedExtensions[ext]; !ok {
		return false, nil
	}

	rec, err := m.table.Get(ctx, username)
	if err != nil {
		return false, err
	}

	if !common.IsDefaultProfilePicture(rec.ProfilePicture) {
		if err := m.blobs.Delete(ctx, m.bucket, rec.ProfilePicture); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
	}

	name := fmt.Sprintf("%s-profile-picture-%s.%s", username, uuid.New(), ext)
	if err := m.blobs.Put(ctx, m.bucket, name, data, "image/"+ext); err != nil {
		return false, err
	}

	_, err = m.table.Update(ctx, username, func(rec *users.Record) error {
		rec.ProfilePicture = name
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove resets username's profile picture to the primary default. The
// current custom blob is deleted best-effort; delete failures are swallowed
// so a lost blob can never wedge the reset.
func (m *Manager) Remove(ctx context.Context, username string) (bool, error) {
	rec, err := m.table.Get(ctx, username)
	if err != nil {
		return false, err
	}

	if !common.IsDefaultProfilePicture(rec.ProfilePicture) {
		_ = m.blobs.Delete(ctx, m.bucket, rec.ProfilePicture)
	}

	_, err = m.table.Update(ctx, username, func(rec *users.Record) error {
		rec.ProfilePicture = common.DefaultProfilePicture
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func extensionOf(filename string) string {
	parts := strings.Split(filename, ".")
	return strings.ToLower(parts[len(parts)-1])
}
