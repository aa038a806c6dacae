package validation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/taskschema/internal/clock"
)

// DefaultConcurrency bounds how many files are validated at once.
const DefaultConcurrency = 8

// Runner validates many pipeline files concurrently.
type Runner struct {
	validator   *Validator
	fs          afero.Fs
	concurrency int
	clock       clock.Clock
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock used for report timestamps and durations.
func WithClock(c clock.Clock) RunnerOption {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// NewRunner creates a runner reading files from fs. A concurrency below one
// uses DefaultConcurrency.
func NewRunner(validator *Validator, fs afero.Fs, concurrency int, opts ...RunnerOption) *Runner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	r := &Runner{validator: validator, fs: fs, concurrency: concurrency, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates every path and returns a report with one result per path, in
// the order given. A failing file never stops the others. The only error
// returned is the context's, when it is cancelled before all files are done.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	log := zerolog.Ctx(ctx)
	report := &Report{
		Files:     make([]FileResult, len(paths)),
		StartedAt: r.clock.Now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Files[i] = FileResult{Path: path, Error: err.Error()}
				return err
			}
			report.Files[i] = r.validateFile(path)
			return nil
		})
	}

	err := g.Wait()

	report.CompletedAt = r.clock.Now()
	report.DurationMs = report.CompletedAt.Sub(report.StartedAt).Milliseconds()
	report.Success = err == nil && len(report.Failed()) == 0

	log.Info().
		Int("files", len(paths)).
		Int("failed", len(report.Failed())).
		Int64("duration_ms", report.DurationMs).
		Msg("pipeline validation finished")

	return report, err
}

// validateFile validates one file. Each goroutine writes only its own slot of
// the report, so no locking is needed.
func (r *Runner) validateFile(path string) FileResult {
	start := r.clock.Now()
	result := FileResult{Path: path}

	data, err := afero.ReadFile(r.fs, path)
	if err == nil {
		result.Problems, err = r.validator.Validate(data)
	}
	if err != nil {
		result.Error = err.Error()
	}

	result.Valid = err == nil && len(result.Problems) == 0
	result.DurationMs = r.clock.Now().Sub(start).Milliseconds()
	return result
}
