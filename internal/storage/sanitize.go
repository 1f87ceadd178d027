package storage

import (
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^0-9A-Za-z.\-]`)

// SanitizeFilename replaces every character outside [0-9A-Za-z.-] with an
// underscore. Path separators are replaced too, so the result never names a
// subdirectory.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// isUsableName reports whether a sanitized name can address a regular file
// inside the storage directory.
func isUsableName(name string) bool {
	return strings.Trim(name, ".") != ""
}
