package storage

import (
	"context"
	"io"
)

// FileStore keeps uploaded files on a filesystem path and maps them to and
// from the public URLs handed out to clients.
type FileStore interface {
	// Save writes r under the sanitized form of originalName and returns the
	// path written. An existing file with the same name is overwritten.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)

	// CheckPermissions verifies that the file at path can be read and written.
	CheckPermissions(path string) error

	// Resolve maps a public URL back to the path of an existing file.
	Resolve(publicURL string) (string, error)

	// PublicURL returns the relative URL under which path is served.
	PublicURL(path string) string
}

// ObjectStorage is a remote bucket that stored files are mirrored into.
type ObjectStorage interface {
	// Upload puts an object into the bucket.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the URL for accessing an object.
	GetURL(key string) string
}
