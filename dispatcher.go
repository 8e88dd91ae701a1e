package vidthumb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

type (
	// ExtractedFrame is a result of a completed SampleJob
	ExtractedFrame struct {
		// Index is a grid cell index of the originating job
		Index int
		// ImagePath is a still image written by the extractor
		ImagePath string
		// Err is an extraction failure, nil on success
		Err error
		// Duration measures how much time the extraction took
		Duration time.Duration
	}

	// Dispatcher runs an Extractor for every job with bounded concurrency
	Dispatcher struct {
		extractor Extractor

		// concurrency 0 means jobs run one after another in the caller goroutine
		concurrency int

		logger *slog.Logger

		// OnFrame is called after each successful extraction, possibly from several goroutines
		OnFrame func(frame ExtractedFrame)

		// LogArgs is an additional log args that will be appended to logs
		LogArgs []slog.Attr
	}

	dispatchTask struct {
		ctx    context.Context
		job    *SampleJob
		frames []ExtractedFrame
		state  *dispatchState
	}

	// dispatchState records the first failure and cancels remaining jobs
	dispatchState struct {
		wg sync.WaitGroup

		mu      sync.Mutex
		cancel  context.CancelFunc
		failure error
	}
)

// NewDispatcher constructs a Dispatcher, concurrency 0 disables the worker pool
func NewDispatcher(extractor Extractor, concurrency int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Dispatch extracts all jobs and returns frames ordered by job index.
// The first failure stops submitting jobs, cancels the ones in flight and is returned as *ExtractionError.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []SampleJob) ([]ExtractedFrame, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &dispatchState{cancel: cancel}
	frames := make([]ExtractedFrame, len(jobs))

	if d.concurrency <= 0 {
		for i := range jobs {
			if err := ctx.Err(); err != nil {
				break
			}

			state.wg.Add(1)
			d.handleTask(&dispatchTask{ctx: ctx, job: &jobs[i], frames: frames, state: state})
		}
	} else {
		pool, err := ants.NewPoolWithFunc(d.concurrency, d.handleTaskRaw)
		if err != nil {
			return nil, fmt.Errorf("cannot create worker pool: %w", err)
		}
		defer pool.Release()

		for i := range jobs {
			if ctx.Err() != nil {
				break
			}

			state.wg.Add(1)

			// Invoke blocks until a worker is free, so jobs start in index order
			if err := pool.Invoke(&dispatchTask{ctx: ctx, job: &jobs[i], frames: frames, state: state}); err != nil {
				state.wg.Done()
				state.fail(fmt.Errorf("cannot submit job %d: %w", i, err))

				break
			}
		}
	}

	state.wg.Wait()

	if err := state.err(); err != nil {
		return nil, err
	}

	// the parent context was cancelled before all jobs started
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

func (d *Dispatcher) handleTaskRaw(taskRaw any) {
	d.handleTask(taskRaw.(*dispatchTask))
}

func (d *Dispatcher) handleTask(task *dispatchTask) {
	defer task.state.wg.Done()

	job := task.job

	// a sibling failed after this job was submitted
	if task.ctx.Err() != nil {
		return
	}

	logArgs := withAttrs(d.LogArgs, jobAttrs(job)...)

	d.logger.LogAttrs(logCtx, slog.LevelDebug, "Extracting thumbnail",
		withAttrs(logArgs, slog.String("dst", job.OutputPath))...)

	start := time.Now()
	err := d.extractor.Extract(task.ctx, job)

	frame := ExtractedFrame{
		Index:     job.Index,
		ImagePath: job.OutputPath,
		Err:       err,
		Duration:  time.Since(start),
	}
	task.frames[job.Index] = frame

	if err != nil {
		// killed because a sibling failed or the caller gave up, the cause is reported elsewhere
		if task.ctx.Err() != nil {
			return
		}

		d.logger.LogAttrs(logCtx, slog.LevelError, "Thumbnail extraction failed",
			withAttrs(logArgs, slog.String("err", err.Error()))...)

		task.state.fail(&ExtractionError{
			Index:   job.Index,
			Video:   job.Video,
			Percent: job.Percent,
			Err:     err,
		})

		return
	}

	d.logger.LogAttrs(logCtx, slog.LevelDebug, "Thumbnail extracted",
		withAttrs(logArgs, slog.Duration("duration", frame.Duration))...)

	if d.OnFrame != nil {
		d.OnFrame(frame)
	}
}

func (s *dispatchState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure == nil {
		s.failure = err
		s.cancel()
	}
}

func (s *dispatchState) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failure
}
