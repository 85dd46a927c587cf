package market

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SampleStatus is the terminal state of one sample within a batch.
type SampleStatus string

const (
	SampleCompleted SampleStatus = "completed"
	SampleFailed    SampleStatus = "failed"
)

// SampleEvent reports one sample's outcome to the caller-supplied callback.
type SampleEvent struct {
	BatchID     string
	SampleIndex int
	Status      SampleStatus
	Err         error
	Elapsed     time.Duration
}

// SampleProcessor processes one sample of a batch. Implementations must be
// safe for concurrent calls; the executor runs up to a full group at once.
type SampleProcessor interface {
	ProcessSample(ctx context.Context, batchID string, index int) error
}

// BatchJob describes one batch dispatch. Parallelism is the fixed group size
// (derive it with ParallelismFor); OnEvent, when non-nil, receives one event
// per sample, serialized so implementations need no locking.
type BatchJob struct {
	Instrument  InstrumentKind
	Samples     int
	Parallelism int
	OnEvent     func(SampleEvent)
}

// BatchResult summarizes a finished (or canceled) batch. Errors maps sample
// index to the failure; completed samples of a canceled batch are not rolled
// back, and samples never started are absent from both counts.
type BatchResult struct {
	BatchID   string
	Completed int
	Failed    int
	Canceled  bool
	Errors    map[int]error
	Elapsed   time.Duration
}

// BatchExecutor processes samples in fixed-size concurrent groups: every
// sample of a group must finish before the next group starts. No dynamic
// work-stealing, no per-sample retries — a failed sample is recorded and the
// batch continues.
type BatchExecutor struct {
	proc SampleProcessor
}

// NewBatchExecutor creates an executor delegating per-sample work to proc.
func NewBatchExecutor(proc SampleProcessor) *BatchExecutor {
	return &BatchExecutor{proc: proc}
}

// Run dispatches the batch. Context cancellation is observed only at group
// boundaries: the in-flight group drains, remaining groups are skipped and
// the result is marked canceled.
func (e *BatchExecutor) Run(ctx context.Context, job BatchJob) (*BatchResult, error) {
	if job.Samples < 1 {
		return nil, ErrInvalidRequest
	}
	par := job.Parallelism
	if par < 1 {
		par = 1
	}

	result := &BatchResult{
		BatchID: uuid.NewString(),
		Errors:  make(map[int]error),
	}
	start := time.Now()

	var mu sync.Mutex
	record := func(ev SampleEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Err != nil {
			result.Failed++
			result.Errors[ev.SampleIndex] = ev.Err
		} else {
			result.Completed++
		}
		if job.OnEvent != nil {
			job.OnEvent(ev)
		}
	}

	for groupStart := 0; groupStart < job.Samples; groupStart += par {
		if err := ctx.Err(); err != nil {
			result.Canceled = true
			break
		}
		groupEnd := groupStart + par
		if groupEnd > job.Samples {
			groupEnd = job.Samples
		}
		var wg sync.WaitGroup
		for i := groupStart; i < groupEnd; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				sampleStart := time.Now()
				err := e.proc.ProcessSample(ctx, result.BatchID, index)
				status := SampleCompleted
				if err != nil {
					status = SampleFailed
				}
				record(SampleEvent{
					BatchID:     result.BatchID,
					SampleIndex: index,
					Status:      status,
					Err:         err,
					Elapsed:     time.Since(sampleStart),
				})
			}(i)
		}
		wg.Wait()
	}

	result.Elapsed = time.Since(start)
	logrus.Debugf("batch %s: %d completed, %d failed (canceled=%v) in %s",
		result.BatchID, result.Completed, result.Failed, result.Canceled, result.Elapsed)
	return result, nil
}
