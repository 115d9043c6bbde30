package kadro

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ============================================================================
// Parallel Execution Configuration
// ============================================================================

// ParallelConfig controls parallelization behavior
type ParallelConfig struct {
	// MinRowsForParallel is the minimum rows to justify parallel overhead
	MinRowsForParallel int

	// MorselSize is the number of rows per work unit (default 4096)
	MorselSize int

	// MaxWorkers limits the number of worker goroutines (0 = GOMAXPROCS)
	MaxWorkers int

	// Enabled controls whether parallelism is used at all
	Enabled bool
}

// DefaultParallelConfig returns sensible defaults
func DefaultParallelConfig() *ParallelConfig {
	return &ParallelConfig{
		MinRowsForParallel: 8192,
		MorselSize:         4096,
		MaxWorkers:         0,
		Enabled:            true,
	}
}

// globalConfig is the default configuration
var globalConfig = DefaultParallelConfig()

// SetParallelConfig sets the global parallelization configuration
func SetParallelConfig(cfg *ParallelConfig) {
	if cfg != nil {
		globalConfig = cfg
	}
}

// GetParallelConfig returns the current configuration
func GetParallelConfig() *ParallelConfig {
	return globalConfig
}

// numWorkers returns the number of workers to use
func (cfg *ParallelConfig) numWorkers() int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// shouldParallelize determines if an operation should be parallelized
func (cfg *ParallelConfig) shouldParallelize(rows int) bool {
	return cfg.Enabled && rows >= cfg.MinRowsForParallel
}

// ============================================================================
// Morsel-Based Work Distribution
// ============================================================================

// Morsel represents a range of rows to process
type Morsel struct {
	Start int
	End   int
}

// MorselIterator provides work-stealing morsel distribution
type MorselIterator struct {
	totalRows  int
	morselSize int
	nextStart  int64 // atomic counter for work-stealing
}

// NewMorselIterator creates a new morsel iterator
func NewMorselIterator(totalRows, morselSize int) *MorselIterator {
	if morselSize <= 0 {
		morselSize = globalConfig.MorselSize
	}
	return &MorselIterator{
		totalRows:  totalRows,
		morselSize: morselSize,
	}
}

// Next returns the next morsel, or nil if exhausted.
// Safe for concurrent use.
func (mi *MorselIterator) Next() *Morsel {
	for {
		start := atomic.LoadInt64(&mi.nextStart)
		if int(start) >= mi.totalRows {
			return nil
		}

		end := int(start) + mi.morselSize
		if end > mi.totalRows {
			end = mi.totalRows
		}

		if atomic.CompareAndSwapInt64(&mi.nextStart, start, int64(end)) {
			return &Morsel{Start: int(start), End: end}
		}
		// Another worker claimed it, try again
	}
}

// ============================================================================
// Parallel Execution Helpers
// ============================================================================

// ParallelFor executes fn for each morsel in parallel using work-stealing
func ParallelFor(totalRows int, fn func(start, end int)) {
	cfg := globalConfig
	if !cfg.shouldParallelize(totalRows) {
		fn(0, totalRows)
		return
	}

	numWorkers := cfg.numWorkers()
	morselIter := NewMorselIterator(totalRows, cfg.MorselSize)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				morsel := morselIter.Next()
				if morsel == nil {
					return
				}
				fn(morsel.Start, morsel.End)
			}
		}()
	}
	wg.Wait()
}

// ParallelMap applies fn to each index in parallel. Results keep index
// order regardless of completion order.
func ParallelMap[T any](n int, fn func(i int) T) []T {
	results := make([]T, n)

	cfg := globalConfig
	if !cfg.shouldParallelize(n) {
		for i := 0; i < n; i++ {
			results[i] = fn(i)
		}
		return results
	}

	ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = fn(i)
		}
	})
	return results
}

// ============================================================================
// Cost-Based Parallelization Decisions
// ============================================================================

// OperationType represents different operation types for cost estimation
type OperationType int

const (
	OpFilter OperationType = iota
	OpSort
	OpPartition
	OpGroupApply
	OpJoinBuild
	OpJoinProbe
	OpGather
)

// EstimatedCostPerRow returns nanoseconds per row for an operation
func EstimatedCostPerRow(op OperationType) int {
	switch op {
	case OpFilter:
		return 2
	case OpSort:
		return 50
	case OpPartition:
		return 40 // key encode + map insert
	case OpGroupApply:
		return 30 // sub-table gather + user function dispatch
	case OpJoinBuild:
		return 20
	case OpJoinProbe:
		return 30
	case OpGather:
		return 3
	default:
		return 10
	}
}

// ShouldParallelizeOp decides based on operation type and data size
func ShouldParallelizeOp(op OperationType, rows int) bool {
	cfg := globalConfig
	if !cfg.Enabled {
		return false
	}

	totalWorkNs := rows * EstimatedCostPerRow(op)

	// Overhead of spawning goroutines + synchronization (~5us per worker)
	numWorkers := cfg.numWorkers()
	overheadNs := 5000 * numWorkers

	return totalWorkNs > overheadNs*10
}
