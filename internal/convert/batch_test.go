// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// countingConverter fails tasks whose base name starts with "bad", panics on
// "boom", and tracks peak concurrency.
type countingConverter struct {
	running atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
}

func (c *countingConverter) Convert(task types.ConversionTask) types.ConversionOutcome {
	c.calls.Add(1)
	n := c.running.Add(1)
	defer c.running.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}

	name := filepath.Base(task.SourcePath)
	switch {
	case name == "boom.heic":
		panic("converter crashed")
	case len(name) >= 3 && name[:3] == "bad":
		return types.Failed(task, name, errors.New("decode failed"))
	}
	return types.Succeeded(task, name, "/out/"+name)
}

func makeTasks(names ...string) []types.ConversionTask {
	tasks := make([]types.ConversionTask, len(names))
	for i, n := range names {
		tasks[i] = types.ConversionTask{SourcePath: "/in/" + n, InputRoot: "/in", OutputRoot: "/in/Out"}
	}
	return tasks
}

func numberedTasks(n int) []types.ConversionTask {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("img%03d.heic", i)
	}
	return makeTasks(names...)
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		cpus int
		want int
	}{
		{cpus: -1, want: 4},
		{cpus: 0, want: 4},
		{cpus: 1, want: 1},
		{cpus: 8, want: 8},
		{cpus: 32, want: 32},
		{cpus: 128, want: 32},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("cpus=%d", tt.cpus), func(t *testing.T) {
			assert.Equal(t, tt.want, PoolSize(tt.cpus))
		})
	}
}

func TestRunBatch_OneOutcomePerTask(t *testing.T) {
	for _, workers := range []int{1, 4, 32, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			tasks := numberedTasks(50)
			conv := &countingConverter{}

			outcomes := RunBatch(context.Background(), conv, tasks, workers, nil)

			require.Len(t, outcomes, len(tasks))
			assert.Equal(t, int32(len(tasks)), conv.calls.Load())
			for i, o := range outcomes {
				assert.Equal(t, tasks[i].SourcePath, o.SourcePath, "outcome %d out of order", i)
				assert.True(t, o.Success)
			}
			if workers > 0 {
				assert.LessOrEqual(t, conv.peak.Load(), int32(workers))
			}
		})
	}
}

func TestRunBatch_FailuresAreIsolated(t *testing.T) {
	tasks := makeTasks("a.heic", "bad1.heic", "boom.heic", "b.heic", "bad2.heic")

	var mu sync.Mutex
	var seen []string
	outcomes := RunBatch(context.Background(), &countingConverter{}, tasks, 2, func(o types.ConversionOutcome) {
		mu.Lock()
		seen = append(seen, o.FileName)
		mu.Unlock()
	})

	require.Len(t, outcomes, 5)
	assert.ElementsMatch(t, []string{"a.heic", "bad1.heic", "boom.heic", "b.heic", "bad2.heic"}, seen)

	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	assert.False(t, outcomes[2].Success)
	assert.Contains(t, outcomes[2].Error, "converter crashed")
	assert.True(t, outcomes[3].Success)
	assert.False(t, outcomes[4].Success)
}

func TestRunBatch_Empty(t *testing.T) {
	outcomes := RunBatch(context.Background(), &countingConverter{}, nil, 4, nil)
	assert.NotNil(t, outcomes)
	assert.Empty(t, outcomes)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := numberedTasks(10)
	conv := &countingConverter{}
	outcomes := RunBatch(ctx, conv, tasks, 2, nil)

	require.Len(t, outcomes, 10)
	assert.Zero(t, conv.calls.Load())
	for _, o := range outcomes {
		assert.False(t, o.Success)
		assert.Contains(t, o.Error, "cancelled")
	}
}

func TestSummarize(t *testing.T) {
	tasks := makeTasks("a.heic", "b.heic", "c.heic")
	outcomes := []types.ConversionOutcome{
		types.Succeeded(tasks[0], "a.heic", "/in/Out/a.jpg"),
		types.Failed(tasks[1], "b.heic", errors.New("corrupt")),
		types.Succeeded(tasks[2], "c.heic", "/in/Out/c.jpg"),
	}

	s := Summarize(outcomes, "/in/Out")
	assert.Equal(t, 3, s.TotalFound)
	assert.Equal(t, 2, s.Converted)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, "/in/Out", s.OutputDir)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "b.heic", s.Failures[0].FileName)
	assert.True(t, s.HasFailures())
	assert.False(t, s.Empty())

	empty := Summarize(nil, "/in/Out")
	assert.True(t, empty.Empty())
	assert.False(t, empty.HasFailures())
	assert.Equal(t, empty.TotalFound, empty.Converted+empty.Errors)
}
