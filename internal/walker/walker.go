// Package walker implements asynchronous recursive enumeration of
// data files under a table or partition location.
package walker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync/atomic"

	"quarry-hive/internal/fs"
)

// FileCallback receives each qualifying discovered file together with
// its block locations. It may be invoked concurrently from multiple
// workers and is responsible for its own thread-safety. No ordering
// is guaranteed.
type FileCallback func(status fs.FileStatus, blocks []fs.BlockLocation)

// AsyncWalker walks directory trees concurrently: every directory
// listing is one unit of work on the executor, so sibling subtrees
// are enumerated in parallel.
type AsyncWalker struct {
	fileSystem fs.FileSystem
	executor   Executor
}

// NewAsyncWalker creates a walker over fileSystem scheduling listings
// on executor.
func NewAsyncWalker(fileSystem fs.FileSystem, executor Executor) *AsyncWalker {
	return &AsyncWalker{fileSystem: fileSystem, executor: executor}
}

// BeginWalk starts a walk rooted at root and returns immediately. The
// returned future settles exactly once: to success when every
// reachable, non-excluded file under root has been passed to
// callback, or to the first listing error observed. Entries whose
// name starts with an underscore are skipped entirely; files with no
// block locations are skipped. In-flight sibling listings keep
// running after a failure is recorded, but their outcomes are
// discarded.
func (w *AsyncWalker) BeginWalk(ctx context.Context, root string, callback FileCallback) *Future {
	future := newFuture()
	w.recursiveWalk(ctx, root, callback, new(atomic.Int64), future)
	return future
}

func (w *AsyncWalker) recursiveWalk(ctx context.Context, dir string, callback FileCallback, taskCount *atomic.Int64, future *Future) {
	taskCount.Add(1)
	w.executor.Execute(func() {
		defer func() {
			if taskCount.Add(-1) == 0 {
				future.setSuccess()
			}
		}()

		entries, err := w.fileSystem.ListDirectory(ctx, dir)
		if err != nil {
			var notFound *fs.PathNotFoundError
			if errors.As(err, &notFound) {
				future.setError(fmt.Errorf("partition location does not exist: %s: %w", dir, err))
			} else {
				future.setError(err)
			}
			return
		}

		for _, entry := range entries {
			// ignore entries starting with underscore
			if strings.HasPrefix(path.Base(entry.Status.Path), "_") {
				continue
			}
			if entry.Status.IsDir {
				w.recursiveWalk(ctx, entry.Status.Path, callback, taskCount, future)
				continue
			}
			// ignore empty files
			if len(entry.BlockLocations) > 0 {
				callback(entry.Status, entry.BlockLocations)
			}
		}
	})
}
