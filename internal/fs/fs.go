// Package fs defines the filesystem abstraction the split discovery
// layer walks over, plus HDFS, S3 and in-memory implementations.
package fs

import (
	"context"
	"fmt"
	"time"
)

// BlockLocation describes the physical placement of one block of a
// file's data. A file with no block locations is empty.
type BlockLocation struct {
	Hosts  []string `json:"hosts"`
	Offset int64    `json:"offset"`
	Length int64    `json:"length"`
}

// FileStatus is the metadata of a single filesystem entry.
type FileStatus struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	IsDir   bool      `json:"isDir"`
}

// DirectoryEntry is one entry produced by a directory listing: the
// entry's status and, for files, its block locations. Directories and
// zero-length files carry no block locations.
type DirectoryEntry struct {
	Status         FileStatus
	BlockLocations []BlockLocation
}

// FileSystem lists directories in some hierarchical store. A listing
// call is synchronous; callers drive concurrency themselves.
type FileSystem interface {
	// ListDirectory returns the immediate children of path. It fails
	// with *PathNotFoundError if path does not exist.
	ListDirectory(ctx context.Context, path string) ([]DirectoryEntry, error)
}

// PathNotFoundError reports that a listed path does not exist,
// distinguishing a vanished partition location from generic I/O
// failure.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Path)
}

// NewPathNotFoundError creates a PathNotFoundError for path.
func NewPathNotFoundError(path string) *PathNotFoundError {
	return &PathNotFoundError{Path: path}
}
