package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/logger"
	"github.com/timmy/captionrelay/internal/metrics"
	"github.com/timmy/captionrelay/internal/storage"
	_ "golang.org/x/image/webp"
)

// Client-facing messages for missing input.
const (
	MsgNoFileUploaded  = "No file uploaded"
	MsgImageURLMissing = "Image URL not provided"
)

// ErrCatalogDisabled is returned by ListUploads when no database is configured.
var ErrCatalogDisabled = errors.New("upload catalog is not enabled")

// Captioner produces a caption for a stored file.
type Captioner interface {
	Caption(ctx context.Context, path string) (string, error)
}

// UploadCatalog persists metadata about stored files.
type UploadCatalog interface {
	Upsert(ctx context.Context, file *domain.StoredFile) error
	List(ctx context.Context, limit, offset int) ([]domain.StoredFile, int64, error)
}

// UploadResult is the response body of a successful upload.
type UploadResult struct {
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
}

// MediaService runs the upload and recaption pipelines.
type MediaService struct {
	store     storage.FileStore
	captioner Captioner
	mirror    storage.ObjectStorage
	catalog   UploadCatalog
	metrics   *metrics.Recorder
}

// MediaOption configures optional collaborators of MediaService.
type MediaOption func(*MediaService)

// WithMirror copies every stored file into an object storage bucket.
func WithMirror(mirror storage.ObjectStorage) MediaOption {
	return func(s *MediaService) {
		s.mirror = mirror
	}
}

// WithCatalog records metadata for every stored file.
func WithCatalog(catalog UploadCatalog) MediaOption {
	return func(s *MediaService) {
		s.catalog = catalog
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec *metrics.Recorder) MediaOption {
	return func(s *MediaService) {
		s.metrics = rec
	}
}

// NewMediaService creates a media service.
// Parameters:
//   - store: file store for saving and resolving uploads.
//   - captioner: client for the captioning service.
//   - opts: optional mirror, catalog and metrics.
//
// Returns:
//   - *MediaService: initialized service.
func NewMediaService(store storage.FileStore, captioner Captioner, opts ...MediaOption) *MediaService {
	s := &MediaService{
		store:     store,
		captioner: captioner,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores r under the sanitized originalName, captions it and returns
// the caption together with the file's public URL.
// A nil reader is reported as a validation error.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, originalName string) (*UploadResult, error) {
	if r == nil {
		return nil, domain.NewValidationError("media.upload", MsgNoFileUploaded)
	}

	path, err := s.store.Save(ctx, r, originalName)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	if err := s.store.CheckPermissions(path); err != nil {
		return nil, fmt.Errorf("check upload: %w", err)
	}
	logger.CtxInfo(ctx, "File is readable and writable at: %s", path)

	ctx = logger.WithField(ctx, logger.FieldFilename, filepath.Base(path))
	imageURL := s.store.PublicURL(path)
	s.track(ctx, path, originalName, imageURL)

	caption, err := s.captioner.Caption(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("caption upload: %w", err)
	}

	return &UploadResult{
		Caption:  caption,
		ImageURL: imageURL,
	}, nil
}

// Recaption resolves a previously issued public URL and captions the file
// again. Every call reaches the captioning service.
func (s *MediaService) Recaption(ctx context.Context, imageURL string) (string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return "", domain.NewValidationError("media.recaption", MsgImageURLMissing)
	}

	ctx = logger.WithField(ctx, logger.FieldImageURL, imageURL)
	logger.CtxInfo(ctx, "Received image URL: %s", imageURL)

	path, err := s.store.Resolve(imageURL)
	if err != nil {
		return "", fmt.Errorf("resolve image url: %w", err)
	}
	logger.CtxInfo(ctx, "Constructed file path: %s", path)

	caption, err := s.captioner.Caption(ctx, path)
	if err != nil {
		return "", fmt.Errorf("recaption: %w", err)
	}
	return caption, nil
}

// ListUploads returns stored file records, newest first.
func (s *MediaService) ListUploads(ctx context.Context, limit, offset int) ([]domain.StoredFile, int64, error) {
	if s.catalog == nil {
		return nil, 0, ErrCatalogDisabled
	}
	return s.catalog.List(ctx, limit, offset)
}

// track mirrors and catalogs a freshly stored file. Failures here are logged
// and never fail the upload.
func (s *MediaService) track(ctx context.Context, path, originalName, imageURL string) {
	record, err := describeFile(path)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to inspect stored file: %v", err)
		return
	}
	record.OriginalName = originalName
	record.PublicURL = imageURL
	s.metrics.ObserveStored(record.Size)

	if s.mirror != nil {
		if err := s.mirrorFile(ctx, path, record); err != nil {
			s.metrics.MirrorFailed()
			logger.CtxWarn(ctx, "Failed to mirror stored file: %v", err)
		} else {
			record.Mirrored = true
			logger.CtxInfo(ctx, "Stored file mirrored to %s", s.mirror.GetURL(record.Name))
		}
	}

	if s.catalog != nil {
		if err := s.catalog.Upsert(ctx, record); err != nil {
			logger.CtxWarn(ctx, "Failed to record stored file: %v", err)
		}
	}
}

func (s *MediaService) mirrorFile(ctx context.Context, path string, record *domain.StoredFile) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.mirror.Upload(ctx, record.Name, f, record.Size, record.ContentType)
}

// describeFile reads size, MD5, content type and, for decodable images,
// dimensions. Undecodable content is not an error.
func describeFile(path string) (*domain.StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hash := md5.New()
	size, err := io.Copy(hash, f)
	if err != nil {
		return nil, err
	}

	record := &domain.StoredFile{
		Name:        filepath.Base(path),
		Size:        size,
		MD5Hash:     hex.EncodeToString(hash.Sum(nil)),
		ContentType: "application/octet-stream",
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return record, nil
	}
	if mtype, err := mimetype.DetectReader(f); err == nil {
		record.ContentType = mtype.String()
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return record, nil
	}
	if cfg, _, err := image.DecodeConfig(f); err == nil {
		record.Width = cfg.Width
		record.Height = cfg.Height
	}

	return record, nil
}
