package validation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskschema/internal/validation"
)

func TestRunner_Run_ReportsInOrder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/good.yml", []byte(validPipeline), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/unknown.yml", []byte(unknownTaskPipeline), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/broken.yml", []byte(brokenYAML), 0o644))

	runner := validation.NewRunner(testValidator(t), fs, 2)
	paths := []string{"/p/good.yml", "/p/unknown.yml", "/p/missing.yml", "/p/broken.yml"}

	report, err := runner.Run(testContext(), paths)
	require.NoError(t, err)
	require.Len(t, report.Files, 4)

	for i, path := range paths {
		assert.Equal(t, path, report.Files[i].Path)
	}
	assert.False(t, report.Success)

	assert.True(t, report.Files[0].Valid)
	assert.False(t, report.Files[1].Valid)
	assert.NotEmpty(t, report.Files[1].Problems)
	assert.Empty(t, report.Files[1].Error)
	assert.False(t, report.Files[2].Valid)
	assert.NotEmpty(t, report.Files[2].Error)
	assert.False(t, report.Files[3].Valid)
	assert.Contains(t, report.Files[3].Error, "parse")

	failed := report.Failed()
	require.Len(t, failed, 3)
	assert.Equal(t, "/p/unknown.yml", failed[0].Path)
	assert.False(t, report.CompletedAt.Before(report.StartedAt))
}

func TestRunner_Run_AllValid(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	var paths []string
	for i := range 20 {
		path := fmt.Sprintf("/p/pipeline-%02d.yml", i)
		require.NoError(t, afero.WriteFile(fs, path, []byte(validPipeline), 0o644))
		paths = append(paths, path)
	}

	report, err := validation.NewRunner(testValidator(t), fs, 0).Run(testContext(), paths)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Failed())
	assert.Equal(t, paths[19], report.Files[19].Path)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/good.yml", []byte(validPipeline), 0o644))

	ctx, cancel := context.WithCancel(testContext())
	cancel()

	report, err := validation.NewRunner(testValidator(t), fs, 1).Run(ctx, []string{"/p/good.yml"})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, report.Success)
	assert.Equal(t, "/p/good.yml", report.Files[0].Path)
}

// steppingClock advances by step on every call to Now.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func TestRunner_Run_UsesClock(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/good.yml", []byte(validPipeline), 0o644))

	start := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	clk := &steppingClock{now: start, step: 5 * time.Millisecond}

	runner := validation.NewRunner(testValidator(t), fs, 1, validation.WithClock(clk))
	report, err := runner.Run(testContext(), []string{"/p/good.yml"})
	require.NoError(t, err)

	// Calls: report start, file start, file end, report end.
	assert.Equal(t, start, report.StartedAt)
	assert.Equal(t, start.Add(15*time.Millisecond), report.CompletedAt)
	assert.Equal(t, int64(15), report.DurationMs)
	require.Len(t, report.Files, 1)
	assert.Equal(t, int64(5), report.Files[0].DurationMs)
}
