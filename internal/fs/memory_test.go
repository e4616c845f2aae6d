package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystemListDirectory(t *testing.T) {
	m := NewMemoryFileSystem()
	m.AddFile("/tbl/part-0", 100, "host-a", "host-b")
	m.AddFile("/tbl/part-1", 50, "host-a")
	m.AddFile("/tbl/nested/part-2", 25, "host-b")
	m.AddDir("/tbl/empty")

	entries, err := m.ListDirectory(context.Background(), "/tbl")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	// Sorted by path: empty, nested, part-0, part-1.
	assert.Equal(t, "/tbl/empty", entries[0].Status.Path)
	assert.True(t, entries[0].Status.IsDir)
	assert.Equal(t, "/tbl/nested", entries[1].Status.Path)
	assert.True(t, entries[1].Status.IsDir)

	assert.Equal(t, "/tbl/part-0", entries[2].Status.Path)
	assert.False(t, entries[2].Status.IsDir)
	assert.Equal(t, int64(100), entries[2].Status.Size)
	require.Len(t, entries[2].BlockLocations, 1)
	assert.Equal(t, []string{"host-a", "host-b"}, entries[2].BlockLocations[0].Hosts)
	assert.Equal(t, int64(100), entries[2].BlockLocations[0].Length)
}

func TestMemoryFileSystemImplicitParents(t *testing.T) {
	m := NewMemoryFileSystem()
	m.AddFile("/a/b/c/file", 10, "h")

	for _, dir := range []string{"/", "/a", "/a/b", "/a/b/c"} {
		entries, err := m.ListDirectory(context.Background(), dir)
		require.NoErrorf(t, err, "listing %s", dir)
		require.Lenf(t, entries, 1, "listing %s", dir)
	}
}

func TestMemoryFileSystemEmptyFileHasNoBlocks(t *testing.T) {
	m := NewMemoryFileSystem()
	m.AddFile("/tbl/empty-file", 0)

	entries, err := m.ListDirectory(context.Background(), "/tbl")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].BlockLocations)
}

func TestMemoryFileSystemUnknownPath(t *testing.T) {
	m := NewMemoryFileSystem()

	_, err := m.ListDirectory(context.Background(), "/nope")
	require.Error(t, err)

	var notFound *PathNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/nope", notFound.Path)

	// A file path is not a directory either.
	m.AddFile("/tbl/file", 1, "h")
	_, err = m.ListDirectory(context.Background(), "/tbl/file")
	assert.Error(t, err)
}

func TestMemoryFileSystemNormalizesPaths(t *testing.T) {
	m := NewMemoryFileSystem()
	m.AddFile("tbl/part-0", 10, "h")

	entries, err := m.ListDirectory(context.Background(), "/tbl/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/tbl/part-0", entries[0].Status.Path)
}
