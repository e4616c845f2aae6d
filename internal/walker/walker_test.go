package walker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quarry-hive/internal/fs"
)

// collector is a thread-safe FileCallback recording discovered paths.
type collector struct {
	mu    sync.Mutex
	paths map[string]int
}

func newCollector() *collector {
	return &collector{paths: make(map[string]int)}
}

func (c *collector) callback(status fs.FileStatus, blocks []fs.BlockLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths[status.Path]++
}

func (c *collector) snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.paths))
	for p, n := range c.paths {
		out[p] = n
	}
	return out
}

// funcFS adapts a function to fs.FileSystem.
type funcFS func(path string) ([]fs.DirectoryEntry, error)

func (f funcFS) ListDirectory(_ context.Context, path string) ([]fs.DirectoryEntry, error) {
	return f(path)
}

// inlineExecutor runs every task synchronously, giving deterministic
// traversal order.
type inlineExecutor struct{}

func (inlineExecutor) Execute(task func()) { task() }

func buildTree(t *testing.T) *fs.MemoryFileSystem {
	t.Helper()
	m := fs.NewMemoryFileSystem()
	m.AddFile("/warehouse/orders/part-0", 128, "node-1")
	m.AddFile("/warehouse/orders/part-1", 64, "node-2")
	m.AddFile("/warehouse/orders/2024/part-2", 32, "node-1")
	m.AddFile("/warehouse/orders/2024/q1/part-3", 16, "node-3")
	m.AddFile("/warehouse/orders/2025/part-4", 8, "node-2")
	return m
}

func waitErr(t *testing.T, f *Future) error {
	t.Helper()
	select {
	case <-f.Done():
		return f.Err()
	case <-time.After(5 * time.Second):
		t.Fatal("walk did not complete in time")
		return nil
	}
}

func TestBeginWalkReportsEveryFileOnce(t *testing.T) {
	executors := map[string]func(t *testing.T) Executor{
		"goroutine-per-task": func(*testing.T) Executor { return GoExecutor{} },
		"inline":             func(*testing.T) Executor { return inlineExecutor{} },
		"worker-pool": func(t *testing.T) Executor {
			p := NewWorkerPool(4)
			t.Cleanup(p.Stop)
			return p
		},
		"single-worker": func(t *testing.T) Executor {
			p := NewWorkerPool(1)
			t.Cleanup(p.Stop)
			return p
		},
	}

	for name, newExecutor := range executors {
		t.Run(name, func(t *testing.T) {
			m := buildTree(t)
			w := NewAsyncWalker(m, newExecutor(t))
			c := newCollector()

			future := w.BeginWalk(context.Background(), "/warehouse/orders", c.callback)
			require.NoError(t, waitErr(t, future))

			want := map[string]int{
				"/warehouse/orders/part-0":         1,
				"/warehouse/orders/part-1":         1,
				"/warehouse/orders/2024/part-2":    1,
				"/warehouse/orders/2024/q1/part-3": 1,
				"/warehouse/orders/2025/part-4":    1,
			}
			assert.Equal(t, want, c.snapshot())
		})
	}
}

func TestBeginWalkSkipsUnderscoreEntries(t *testing.T) {
	m := buildTree(t)
	m.AddFile("/warehouse/orders/_SUCCESS", 4, "node-1")
	m.AddFile("/warehouse/orders/_staging/part-9", 64, "node-1")
	m.AddFile("/warehouse/orders/_staging/deep/part-10", 64, "node-1")

	w := NewAsyncWalker(m, GoExecutor{})
	c := newCollector()

	future := w.BeginWalk(context.Background(), "/warehouse/orders", c.callback)
	require.NoError(t, waitErr(t, future))

	got := c.snapshot()
	assert.Len(t, got, 5)
	assert.NotContains(t, got, "/warehouse/orders/_SUCCESS")
	assert.NotContains(t, got, "/warehouse/orders/_staging/part-9")
	assert.NotContains(t, got, "/warehouse/orders/_staging/deep/part-10")
}

func TestBeginWalkSkipsEmptyFiles(t *testing.T) {
	m := buildTree(t)
	m.AddFile("/warehouse/orders/empty", 0)

	w := NewAsyncWalker(m, GoExecutor{})
	c := newCollector()

	future := w.BeginWalk(context.Background(), "/warehouse/orders", c.callback)
	require.NoError(t, waitErr(t, future))

	assert.NotContains(t, c.snapshot(), "/warehouse/orders/empty")
	assert.Len(t, c.snapshot(), 5)
}

func TestBeginWalkEmptyDirectorySucceeds(t *testing.T) {
	m := fs.NewMemoryFileSystem()
	m.AddDir("/warehouse/empty")

	w := NewAsyncWalker(m, GoExecutor{})
	c := newCollector()

	future := w.BeginWalk(context.Background(), "/warehouse/empty", c.callback)
	require.NoError(t, waitErr(t, future))
	assert.Empty(t, c.snapshot())
}

func TestBeginWalkMissingRoot(t *testing.T) {
	m := fs.NewMemoryFileSystem()

	w := NewAsyncWalker(m, GoExecutor{})
	future := w.BeginWalk(context.Background(), "/warehouse/vanished", func(fs.FileStatus, []fs.BlockLocation) {
		t.Error("callback must not be invoked")
	})

	err := waitErr(t, future)
	require.Error(t, err)

	var notFound *fs.PathNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/warehouse/vanished", notFound.Path)
	assert.Contains(t, err.Error(), "/warehouse/vanished")
}

func TestBeginWalkMissingSubdirectory(t *testing.T) {
	// The subdirectory is listed but vanishes before its own listing.
	root := []fs.DirectoryEntry{
		{Status: fs.FileStatus{Path: "/tbl/keep", Size: 1}, BlockLocations: []fs.BlockLocation{{Length: 1}}},
		{Status: fs.FileStatus{Path: "/tbl/gone", IsDir: true}},
	}
	fsys := funcFS(func(path string) ([]fs.DirectoryEntry, error) {
		if path == "/tbl" {
			return root, nil
		}
		return nil, fs.NewPathNotFoundError(path)
	})

	w := NewAsyncWalker(fsys, GoExecutor{})
	c := newCollector()
	future := w.BeginWalk(context.Background(), "/tbl", c.callback)

	err := waitErr(t, future)
	require.Error(t, err)

	var notFound *fs.PathNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/tbl/gone", notFound.Path)
}

func TestBeginWalkGenericListingFailure(t *testing.T) {
	cause := errors.New("connection reset")
	fsys := funcFS(func(path string) ([]fs.DirectoryEntry, error) {
		return nil, fmt.Errorf("listing %s: %w", path, cause)
	})

	w := NewAsyncWalker(fsys, GoExecutor{})
	future := w.BeginWalk(context.Background(), "/tbl", func(fs.FileStatus, []fs.BlockLocation) {})

	err := waitErr(t, future)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var notFound *fs.PathNotFoundError
	assert.False(t, errors.As(err, &notFound))
}

func TestBeginWalkFirstErrorWins(t *testing.T) {
	// Inline execution forces /tbl/a to fail before /tbl/b is even
	// listed; the recorded failure must be a's.
	errA := errors.New("failure in a")
	errB := errors.New("failure in b")
	fsys := funcFS(func(path string) ([]fs.DirectoryEntry, error) {
		switch path {
		case "/tbl":
			return []fs.DirectoryEntry{
				{Status: fs.FileStatus{Path: "/tbl/a", IsDir: true}},
				{Status: fs.FileStatus{Path: "/tbl/b", IsDir: true}},
			}, nil
		case "/tbl/a":
			return nil, errA
		case "/tbl/b":
			return nil, errB
		}
		return nil, fs.NewPathNotFoundError(path)
	})

	w := NewAsyncWalker(fsys, inlineExecutor{})
	future := w.BeginWalk(context.Background(), "/tbl", func(fs.FileStatus, []fs.BlockLocation) {})

	err := waitErr(t, future)
	require.ErrorIs(t, err, errA)
	require.NotErrorIs(t, err, errB)
}

func TestBeginWalkLateSiblingCompletion(t *testing.T) {
	// One subtree fails immediately; a sibling listing is still in
	// flight and finishes only after the future has settled. The late
	// completion must not change the recorded outcome.
	release := make(chan struct{})
	slowDone := make(chan struct{})
	failure := errors.New("fast failure")

	fsys := funcFS(func(path string) ([]fs.DirectoryEntry, error) {
		switch path {
		case "/tbl":
			return []fs.DirectoryEntry{
				{Status: fs.FileStatus{Path: "/tbl/slow", IsDir: true}},
				{Status: fs.FileStatus{Path: "/tbl/fast", IsDir: true}},
			}, nil
		case "/tbl/slow":
			<-release
			defer close(slowDone)
			return []fs.DirectoryEntry{
				{Status: fs.FileStatus{Path: "/tbl/slow/file", Size: 1}, BlockLocations: []fs.BlockLocation{{Length: 1}}},
			}, nil
		case "/tbl/fast":
			return nil, failure
		}
		return nil, fs.NewPathNotFoundError(path)
	})

	w := NewAsyncWalker(fsys, GoExecutor{})
	c := newCollector()
	future := w.BeginWalk(context.Background(), "/tbl", c.callback)

	require.ErrorIs(t, waitErr(t, future), failure)

	close(release)
	select {
	case <-slowDone:
	case <-time.After(5 * time.Second):
		t.Fatal("slow listing never completed")
	}

	// Outcome is immutable after resolution.
	assert.ErrorIs(t, future.Err(), failure)
}

func TestBeginWalkWideTreeUnderConcurrency(t *testing.T) {
	m := fs.NewMemoryFileSystem()
	want := 0
	for d := 0; d < 20; d++ {
		for f := 0; f < 10; f++ {
			m.AddFile(fmt.Sprintf("/tbl/dir-%02d/part-%02d", d, f), 10, "node-1")
			want++
		}
	}

	pool := NewWorkerPool(8)
	t.Cleanup(pool.Stop)
	w := NewAsyncWalker(m, pool)
	c := newCollector()
	future := w.BeginWalk(context.Background(), "/tbl", c.callback)
	require.NoError(t, waitErr(t, future))

	got := c.snapshot()
	assert.Len(t, got, want)
	for p, n := range got {
		assert.Equalf(t, 1, n, "file %s reported %d times", p, n)
	}
}

func TestFutureSettlesExactlyOnce(t *testing.T) {
	f := newFuture()

	var wg sync.WaitGroup
	errs := []error{errors.New("e1"), errors.New("e2"), errors.New("e3")}
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(err error) {
			defer wg.Done()
			f.setError(err)
		}(errs[i])
	}
	wg.Wait()

	got := f.Err()
	require.Error(t, got)

	// Later attempts, error or success, are no-ops.
	f.setSuccess()
	f.setError(errors.New("late"))
	assert.Equal(t, got, f.Err())
}
