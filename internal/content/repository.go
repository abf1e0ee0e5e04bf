// Package content manages wiki pages and user uploads in the content
// bucket, plus the file-ownership lists in the user table.
package content

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/common"
	"github.com/teamawesome/wikistore/internal/users"
)

// pageSuffix identifies wiki pages among all blobs in the content bucket.
const pageSuffix = ".html"

type Repository struct {
	blobs  blobstore.Store
	bucket string
	table  *users.Table
}

func NewRepository(blobs blobstore.Store, bucket string, table *users.Table) *Repository {
	return &Repository{blobs: blobs, bucket: bucket, table: table}
}

// GetPage returns the content of the named wiki page as UTF-8 text.
// Returns common.ErrorNotFound if no such blob exists.
func (r *Repository) GetPage(ctx context.Context, name string) (string, error) {
	data, err := r.blobs.Get(ctx, r.bucket, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ListPageNames returns the names of all wiki pages (blobs ending in
// ".html"). Order is store-defined.
func (r *Repository) ListPageNames(ctx context.Context) ([]string, error) {
	all, err := r.blobs.List(ctx, r.bucket)
	if err != nil {
		return nil, err
	}
	pages := []string{}
	for _, name := range all {
		if strings.HasSuffix(name, pageSuffix) {
			pages = append(pages, name)
		}
	}
	return pages, nil
}

// DerivedName computes the stored blob name for an upload: the caller's
// display name plus the extension of the originally uploaded file.
func DerivedName(displayName, originalFilename string) string {
	parts := strings.Split(originalFilename, ".")
	ext := parts[len(parts)-1]
	return fmt.Sprintf("%s.%s", displayName, ext)
}

// Upload stores data under the derived blob name and records ownership in
// the user table. Returns false without side effects if a blob with the
// derived name already exists. The existence check and the ownership append
// are separate store calls; concurrent uploads of the same name race with
// last-writer-wins semantics.
func (r *Repository) Upload(ctx context.Context, owner, displayName string, data []byte, originalFilename string) (bool, error) {
	name := DerivedName(displayName, originalFilename)

	exists, err := r.blobs.Exists(ctx, r.bucket, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := r.blobs.Put(ctx, r.bucket, name, data, contentTypeFor(name)); err != nil {
		return false, err
	}

	_, err = r.table.Update(ctx, owner, func(rec *users.Record) error {
		rec.UploadedFiles = append(rec.UploadedFiles, name)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("recording upload %s for %s: %w", name, owner, err)
	}
	return true, nil
}

// GetImages fetches the raw bytes of each named blob, preserving input
// order. Fails with common.ErrorNotFound if any name is absent.
func (r *Repository) GetImages(ctx context.Context, names []string) ([][]byte, error) {
	images := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := r.blobs.Get(ctx, r.bucket, name)
		if err != nil {
			return nil, err
		}
		images = append(images, data)
	}
	return images, nil
}

// GetUserFiles returns the blob names owned by username, in upload order.
func (r *Repository) GetUserFiles(ctx context.Context, username string) ([]string, error) {
	rec, err := r.table.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return rec.UploadedFiles, nil
}

// DeleteFile removes the blob and drops fileName from owner's file list,
// returning the updated list. Returns common.ErrorNotFound if the blob or
// the list entry does not exist.
func (r *Repository) DeleteFile(ctx context.Context, owner, fileName string) ([]string, error) {
	if err := r.blobs.Delete(ctx, r.bucket, fileName); err != nil {
		return nil, err
	}

	rec, err := r.table.Update(ctx, owner, func(rec *users.Record) error {
		for i, name := range rec.UploadedFiles {
			if name == fileName {
				rec.UploadedFiles = append(rec.UploadedFiles[:i], rec.UploadedFiles[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: file %s not owned by %s", common.ErrorNotFound, fileName, owner)
	})
	if err != nil {
		return nil, err
	}
	return rec.UploadedFiles, nil
}

// Contributors returns the usernames that have uploaded at least one file.
func (r *Repository) Contributors(ctx context.Context) ([]string, error) {
	return r.table.Contributors(ctx)
}

func contentTypeFor(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		if ct := mime.TypeByExtension(name[i:]); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
