package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/logger"
)

// DefaultURLPrefix is the path prefix stored files are served under.
const DefaultURLPrefix = "/uploads/"

// DiskStore implements FileStore on a flat local directory.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates a store rooted at dir. An empty urlPrefix falls back
// to DefaultURLPrefix.
func NewDiskStore(dir, urlPrefix string) *DiskStore {
	return &DiskStore{
		dir:       dir,
		urlPrefix: NormalizeURLPrefix(urlPrefix),
	}
}

// NormalizeURLPrefix returns prefix with leading and trailing slashes, or
// DefaultURLPrefix when it is blank.
func NormalizeURLPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultURLPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// Dir returns the storage directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// URLPrefix returns the public URL prefix, always with leading and trailing slashes.
func (s *DiskStore) URLPrefix() string {
	return s.urlPrefix
}

// Save streams r into <dir>/<sanitized name>, truncating any existing file.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := SanitizeFilename(originalName)
	if !isUsableName(name) {
		return "", &domain.Error{
			Kind: domain.KindIO,
			Op:   "storage.save",
			Path: originalName,
			Err:  errors.New("file name is empty after sanitization"),
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &domain.Error{Kind: domain.KindIO, Op: "storage.save", Path: s.dir, Err: err}
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindIO, Op: "storage.save", Path: path, Err: err}
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.CtxError(ctx, "Error saving file: path=%s, error=%v", path, err)
		return "", &domain.Error{Kind: domain.KindIO, Op: "storage.save", Path: path, Err: err}
	}

	logger.With(logger.Fields{logger.FieldSize: written}).
		Info(ctx, "File successfully saved at: %s", path)

	return path, nil
}

// CheckPermissions opens the file once for reading and once for writing.
// Neither open modifies the file.
func (s *DiskStore) CheckPermissions(path string) error {
	rf, err := os.Open(path)
	if err != nil {
		return &domain.Error{
			Kind: domain.KindPermission,
			Op:   "storage.check_permissions",
			Path: path,
			Err:  fmt.Errorf("file is not readable: %w", err),
		}
	}
	rf.Close()

	wf, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &domain.Error{
			Kind: domain.KindPermission,
			Op:   "storage.check_permissions",
			Path: path,
			Err:  fmt.Errorf("file is not writable: %w", err),
		}
	}
	wf.Close()

	return nil
}

// Resolve strips the URL prefix from publicURL and returns the matching path
// in the storage directory. Absolute URLs are reduced to their path first.
func (s *DiskStore) Resolve(publicURL string) (string, error) {
	ref := strings.TrimSpace(publicURL)
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		ref = u.Path
	}

	name := strings.TrimPrefix(ref, s.urlPrefix)
	if name == "" || !filepath.IsLocal(name) {
		return "", &domain.Error{
			Kind: domain.KindNotFound,
			Op:   "storage.resolve",
			Path: publicURL,
			Err:  errors.New("file not found"),
		}
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindNotFound, Op: "storage.resolve", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &domain.Error{
			Kind: domain.KindNotFound,
			Op:   "storage.resolve",
			Path: path,
			Err:  errors.New("not a regular file"),
		}
	}

	return path, nil
}

// PublicURL returns <prefix><basename(path)>.
func (s *DiskStore) PublicURL(path string) string {
	return s.urlPrefix + filepath.Base(path)
}
