package fs

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFileSystem is an in-memory FileSystem used by tests and local
// development. Directories are implicit: adding /a/b/c creates /a and
// /a/b. Safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]memoryFile // path -> file
	dirs  map[string]bool
}

type memoryFile struct {
	size    int64
	modTime time.Time
	blocks  []BlockLocation
}

// NewMemoryFileSystem creates an empty in-memory filesystem containing
// only the root directory.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string]memoryFile),
		dirs:  map[string]bool{"/": true},
	}
}

// AddFile adds a file at p with one block location per host list
// entry, creating parent directories. A size of zero produces a file
// with no block locations.
func (m *MemoryFileSystem) AddFile(p string, size int64, hosts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	m.addParents(p)

	f := memoryFile{size: size, modTime: time.Now()}
	if size > 0 {
		f.blocks = []BlockLocation{{Hosts: hosts, Offset: 0, Length: size}}
	}
	m.files[p] = f
}

// AddDir adds an (empty) directory at p, creating parents.
func (m *MemoryFileSystem) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	m.addParents(p)
	m.dirs[p] = true
}

func (m *MemoryFileSystem) addParents(p string) {
	for d := path.Dir(p); ; d = path.Dir(d) {
		m.dirs[d] = true
		if d == "/" {
			break
		}
	}
}

// ListDirectory lists the immediate children of dir, sorted by path.
func (m *MemoryFileSystem) ListDirectory(_ context.Context, dir string) ([]DirectoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir = path.Clean("/" + strings.TrimPrefix(dir, "/"))
	if !m.dirs[dir] {
		return nil, NewPathNotFoundError(dir)
	}

	var entries []DirectoryEntry
	for p, f := range m.files {
		if path.Dir(p) == dir {
			entries = append(entries, DirectoryEntry{
				Status: FileStatus{
					Path:    p,
					Size:    f.size,
					ModTime: f.modTime,
				},
				BlockLocations: f.blocks,
			})
		}
	}
	for p := range m.dirs {
		if p != "/" && path.Dir(p) == dir {
			entries = append(entries, DirectoryEntry{
				Status: FileStatus{Path: p, IsDir: true},
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Status.Path < entries[j].Status.Path
	})
	return entries, nil
}
