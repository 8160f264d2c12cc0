// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/heic-converter/pkg/types"
)

const (
	// maxWorkers caps the pool on many-core machines to bound open files
	// and decoded images held in memory.
	maxWorkers = 32
	// fallbackWorkers is used when the CPU count is unknown.
	fallbackWorkers = 4
)

// TaskConverter converts one task into exactly one outcome.
type TaskConverter interface {
	Convert(task types.ConversionTask) types.ConversionOutcome
}

// PoolSize returns min(32, cpus), or 4 when cpus is not positive.
func PoolSize(cpus int) int {
	if cpus <= 0 {
		return fallbackWorkers
	}
	return min(maxWorkers, cpus)
}

// DefaultPoolSize applies PoolSize to the CPUs usable by this process.
func DefaultPoolSize() int {
	return PoolSize(runtime.NumCPU())
}

// RunBatch converts every task on a pool of at most workers goroutines
// (DefaultPoolSize when workers <= 0) and returns one outcome per task, in
// task order. onOutcome, if non-nil, is called from the worker goroutines
// as each outcome completes.
//
// Once ctx is done, tasks that have not started yet are not converted; they
// get a failed outcome carrying the context error. Running conversions are
// allowed to finish.
func RunBatch(ctx context.Context, conv TaskConverter, tasks []types.ConversionTask, workers int, onOutcome func(types.ConversionOutcome)) []types.ConversionOutcome {
	if len(tasks) == 0 {
		return []types.ConversionOutcome{}
	}
	if workers <= 0 {
		workers = DefaultPoolSize()
	}

	p := pool.NewWithResults[types.ConversionOutcome]().WithMaxGoroutines(workers)
	for _, task := range tasks {
		p.Go(func() types.ConversionOutcome {
			out := runTask(ctx, conv, task)
			if onOutcome != nil {
				onOutcome(out)
			}
			return out
		})
	}
	return p.Wait()
}

// runTask is the task boundary: a panic in conv is turned into a failed
// outcome so it never reaches the pool.
func runTask(ctx context.Context, conv TaskConverter, task types.ConversionTask) (out types.ConversionOutcome) {
	name := filepath.Base(task.SourcePath)
	if err := ctx.Err(); err != nil {
		return types.Failed(task, name, fmt.Errorf("cancelled: %w", err))
	}

	var pc panics.Catcher
	pc.Try(func() { out = conv.Convert(task) })
	if r := pc.Recovered(); r != nil {
		return types.Failed(task, name, fmt.Errorf("panic: %v", r.Value))
	}
	return out
}
