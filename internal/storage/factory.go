package storage

import (
	"fmt"
	"strings"
)

// NewMirror creates the configured mirror, detecting the bucket flavour from
// the endpoint when the type is not set.
func NewMirror(cfg *MirrorConfig) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("mirror bucket is required")
	}
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}
	return NewS3Mirror(cfg)
}

// detectStorageType guesses the storage type from the endpoint.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case endpoint == "", strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
