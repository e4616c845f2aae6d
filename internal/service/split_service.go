package service

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"quarry-hive/internal/fs"
	"quarry-hive/internal/hive"
	"quarry-hive/internal/model"
	"quarry-hive/internal/repository"
	"quarry-hive/internal/scheduler"
	"quarry-hive/internal/walker"
)

var (
	splitFilesDiscovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_split_files_discovered_total",
			Help: "Total number of data files discovered by walks",
		},
		[]string{"table"},
	)
	splitFilesPruned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_split_files_pruned_total",
			Help: "Total number of data files skipped by bucket pruning",
		},
		[]string{"table"},
	)
	splitDirectoriesListed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_split_directories_listed_total",
			Help: "Total number of directory listings performed by walks",
		},
		[]string{"table"},
	)
	splitWalkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quarry_split_walk_duration_seconds",
			Help:    "Duration of partition location walks in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	splitWalkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quarry_split_walk_failures_total",
			Help: "Total number of walks that terminated with an error",
		},
	)
)

// Split is one schedulable unit of table data: a file (with its block
// locations) assigned to a worker node.
type Split struct {
	ID             string             `json:"id"`
	Path           string             `json:"path"`
	Size           int64              `json:"size"`
	BlockLocations []fs.BlockLocation `json:"blockLocations"`
	Node           model.Node         `json:"node"`
}

// DiscoverSplitsRequest asks for the splits of one table. Bindings
// optionally carries predicate-bound column values used for bucket
// pruning; values must be bool, int64 or string.
type DiscoverSplitsRequest struct {
	Schema   string         `json:"schema" validate:"required"`
	Table    string         `json:"table" validate:"required"`
	Bindings map[string]any `json:"bindings,omitempty"`
}

// DiscoverSplitsResponse is the outcome of split discovery.
type DiscoverSplitsResponse struct {
	Splits       []Split `json:"splits"`
	Bucket       *int    `json:"bucket,omitempty"` // set when pruning applied
	FilesScanned int     `json:"filesScanned"`
	FilesPruned  int     `json:"filesPruned"`
}

// SplitService discovers a table's data files and assigns them to
// worker nodes, pruning bucket files that cannot contain matching
// rows when the predicate binds all bucket columns.
type SplitService interface {
	DiscoverSplits(ctx context.Context, req *DiscoverSplitsRequest) (*DiscoverSplitsResponse, error)
}

type splitService struct {
	tableRepo   repository.TableRepository
	filesystems map[model.StorageKind]fs.FileSystem
	executor    walker.Executor
	calculator  *hive.Calculator
	nodes       *scheduler.NodeManager
}

// NewSplitService creates a new instance of SplitService
func NewSplitService(
	tableRepo repository.TableRepository,
	filesystems map[model.StorageKind]fs.FileSystem,
	executor walker.Executor,
	calculator *hive.Calculator,
	nodes *scheduler.NodeManager,
) SplitService {
	return &splitService{
		tableRepo:   tableRepo,
		filesystems: filesystems,
		executor:    executor,
		calculator:  calculator,
		nodes:       nodes,
	}
}

func (s *splitService) DiscoverSplits(ctx context.Context, req *DiscoverSplitsRequest) (*DiscoverSplitsResponse, error) {
	table, err := s.tableRepo.GetByName(ctx, req.Schema, req.Table)
	if err != nil {
		return nil, err
	}

	fileSystem, ok := s.filesystems[table.Storage]
	if !ok {
		return nil, fmt.Errorf("no filesystem configured for storage kind %q", table.Storage)
	}

	tableName := table.Schema + "." + table.Name

	// Collect all qualifying files under the table location. The
	// callback runs concurrently, so guard the slice.
	var mu sync.Mutex
	type discovered struct {
		status fs.FileStatus
		blocks []fs.BlockLocation
	}
	var files []discovered

	startTime := time.Now()
	w := walker.NewAsyncWalker(&countingFileSystem{
		inner:   fileSystem,
		counter: splitDirectoriesListed.WithLabelValues(tableName),
	}, s.executor)
	future := w.BeginWalk(ctx, table.Location, func(status fs.FileStatus, blocks []fs.BlockLocation) {
		mu.Lock()
		files = append(files, discovered{status: status, blocks: blocks})
		mu.Unlock()
	})
	if err := future.Err(); err != nil {
		splitWalkFailures.Inc()
		return nil, fmt.Errorf("failed to enumerate table %s: %w", tableName, err)
	}
	splitWalkDuration.Observe(time.Since(startTime).Seconds())
	splitFilesDiscovered.WithLabelValues(tableName).Add(float64(len(files)))

	response := &DiscoverSplitsResponse{FilesScanned: len(files)}

	// Bucket pruning: when the predicate pins every bucket column we
	// only need the one bucket file the write path would have chosen.
	bucket, prunable := s.calculator.BucketNumber(table, req.Bindings)
	if prunable {
		response.Bucket = &bucket
		kept := files[:0]
		for _, f := range files {
			fileBucket, ok := bucketFromFileName(f.status.Path)
			if ok && fileBucket != bucket {
				response.FilesPruned++
				continue
			}
			kept = append(kept, f)
		}
		files = kept
		splitFilesPruned.WithLabelValues(tableName).Add(float64(response.FilesPruned))
	}

	activeNodes := s.nodes.ActiveNodes()
	if len(activeNodes) == 0 && len(files) > 0 {
		return nil, fmt.Errorf("no active nodes available for table %s", tableName)
	}

	// Round-robin assignment; one task per node that received splits.
	response.Splits = make([]Split, 0, len(files))
	tasked := make(map[string]bool)
	for i, f := range files {
		node := activeNodes[i%len(activeNodes)]
		response.Splits = append(response.Splits, Split{
			ID:             uuid.New().String(),
			Path:           f.status.Path,
			Size:           f.status.Size,
			BlockLocations: f.blocks,
			Node:           node,
		})
		s.nodes.AddSplits(node, 1)
		if !tasked[node.HostPort()] {
			tasked[node.HostPort()] = true
			s.nodes.AddTask(node)
		}
	}

	return response, nil
}

// countingFileSystem counts directory listings as they happen so that
// an in-flight walk is visible in the metrics.
type countingFileSystem struct {
	inner   fs.FileSystem
	counter prometheus.Counter
}

func (c *countingFileSystem) ListDirectory(ctx context.Context, dir string) ([]fs.DirectoryEntry, error) {
	c.counter.Inc()
	return c.inner.ListDirectory(ctx, dir)
}

// bucketFromFileName parses the bucket index out of a Hive bucket
// file name ("000003_0" or "000003_0_copy_1"). Files that do not
// follow the convention are never pruned.
func bucketFromFileName(p string) (int, bool) {
	name := path.Base(p)
	idx := strings.IndexByte(name, '_')
	if idx <= 0 {
		return 0, false
	}
	bucket, err := strconv.Atoi(name[:idx])
	if err != nil {
		return 0, false
	}
	return bucket, true
}
