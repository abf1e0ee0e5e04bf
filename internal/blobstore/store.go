// Package blobstore defines the object-store capability the wiki backend is
// built on: named binary blobs grouped into buckets, with existence checks,
// full-content get/put, delete, prefix-free listing and server-side copy.
package blobstore

import "context"

// Store is the interface for the external object store. Implementations must
// be safe for concurrent use.
type Store interface {
	// Exists reports whether a blob with the given name exists in bucket.
	Exists(ctx context.Context, bucket, name string) (bool, error)

	// Get returns the full content of a blob. Returns common.ErrorNotFound
	// if the blob does not exist.
	Get(ctx context.Context, bucket, name string) ([]byte, error)

	// Put writes data as the full content of the blob, overwriting any
	// previous content.
	Put(ctx context.Context, bucket, name string, data []byte, contentType string) error

	// Delete removes a blob. Returns common.ErrorNotFound if it does not exist.
	Delete(ctx context.Context, bucket, name string) error

	// List returns the names of all blobs in bucket. Order is store-defined.
	List(ctx context.Context, bucket string) ([]string, error)

	// Copy duplicates a blob within bucket under a new name.
	Copy(ctx context.Context, bucket, srcName, dstName string) error
}
