package publish

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	V1IndexPrefix = "v1/indexes"

	V1PathSep = "/"
	V1ExtSep  = "."

	V1IndexExt    = "omsi"
	V1ManifestExt = "manifest"

	// Blob names sort and compare only lexically, so the build id is always
	// a 16 digit hex string. That keeps listing order equal to build order.
	V1IndexBlobNameFmt    = "%016x." + V1IndexExt
	V1ManifestBlobNameFmt = "%016x." + V1ManifestExt
)

var (
	ErrBadIndexName = errors.New("publish: index name is invalid")
	ErrBadBlobPath  = errors.New("publish: blob path does not match the naming schema")
)

// CheckIndexName rejects names that would corrupt the path schema. The name
// becomes a path segment, so it must be non empty and must not contain the
// separator.
func CheckIndexName(name string) error {
	if name == "" || strings.Contains(name, V1PathSep) {
		return fmt.Errorf("%q: %w", name, ErrBadIndexName)
	}
	return nil
}

// IndexPrefix returns the listing prefix under which every build of the
// named index is stored.
func IndexPrefix(name string) string {
	return V1IndexPrefix + V1PathSep + name + V1PathSep
}

// IndexBlobPath returns the blob path for the container blob of the named
// index build.
func IndexBlobPath(name string, id uint64) string {
	return IndexPrefix(name) + fmt.Sprintf(V1IndexBlobNameFmt, id)
}

// ManifestBlobPath returns the blob path for the signed manifest of the
// named index build.
func ManifestBlobPath(name string, id uint64) string {
	return IndexPrefix(name) + fmt.Sprintf(V1ManifestBlobNameFmt, id)
}

// ParseIndexBlobPath recovers the index name and build id from a container
// blob path.
func ParseIndexBlobPath(path string) (string, uint64, error) {
	return parseBlobPath(path, V1IndexExt)
}

// ParseManifestBlobPath recovers the index name and build id from a manifest
// blob path.
func ParseManifestBlobPath(path string) (string, uint64, error) {
	return parseBlobPath(path, V1ManifestExt)
}

func parseBlobPath(path string, ext string) (string, uint64, error) {
	rest, ok := strings.CutPrefix(path, V1IndexPrefix+V1PathSep)
	if !ok {
		return "", 0, fmt.Errorf("%s: wrong prefix: %w", path, ErrBadBlobPath)
	}

	i := strings.LastIndex(rest, V1PathSep)
	if i <= 0 {
		return "", 0, fmt.Errorf("%s: missing name segment: %w", path, ErrBadBlobPath)
	}
	name, file := rest[:i], rest[i+1:]

	stem, ok := strings.CutSuffix(file, V1ExtSep+ext)
	if !ok {
		return "", 0, fmt.Errorf("%s: want extension %q: %w", path, ext, ErrBadBlobPath)
	}

	// Exactly 16 digits, or the lexical ordering promise is already broken.
	if len(stem) != 16 {
		return "", 0, fmt.Errorf("%s: build id must be 16 hex digits: %w", path, ErrBadBlobPath)
	}
	id, err := strconv.ParseUint(stem, 16, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %v: %w", path, err, ErrBadBlobPath)
	}
	return name, id, nil
}
