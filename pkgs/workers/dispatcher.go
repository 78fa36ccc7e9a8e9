package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// task pairs a payload with its original position so results can be written
// back in submission order regardless of completion order.
type task[T any] struct {
	index   int
	payload T
}

// WorkFunc processes one payload with the worker's bound credential. It must
// absorb its own failures into the result value; the dispatcher never aborts
// a job because a task failed.
type WorkFunc[T any, R any] func(ctx context.Context, cred credpool.Credential, payload T) R

// RunStats describes a finished job.
type RunStats struct {
	JobID    string
	Workers  int
	Tasks    int
	Consumed int64
	Duration time.Duration
}

////////////////////////////////////////////////////////////////////////////////

// Dispatcher schedules independent units of work across a fixed number of
// concurrent workers, each permanently bound to one credential for the job's
// lifetime. The worker count is min(credentials, tasks); since the task count
// is known up front the queue is closed after filling and workers simply exit
// when it drains — no shutdown signaling is needed.
type Dispatcher[T any, R any] struct {
	pool *credpool.Pool
}

// NewDispatcher creates a dispatcher drawing credentials from the given pool.
func NewDispatcher[T any, R any](pool *credpool.Pool) *Dispatcher[T, R] {
	return &Dispatcher[T, R]{pool: pool}
}

////////////////////////////////////////////////////////////////////////////////

// Run executes fn for every payload and returns the results indexed by the
// payloads' original positions. The job always drains to completion: a failed
// task degrades inside fn's result, it does not cancel siblings. There is no
// mid-job abort path; ctx is honored only inside fn at remote-call
// boundaries.
func (d *Dispatcher[T, R]) Run(ctx context.Context, payloads []T, fn WorkFunc[T, R]) ([]R, RunStats) {
	startTime := time.Now()
	jobID := uuid.New().String()

	results := make([]R, len(payloads))
	if len(payloads) == 0 {
		return results, RunStats{JobID: jobID, Tasks: 0}
	}

	numWorkers := d.pool.WorkerCount(len(payloads))
	assigned := d.pool.Assign(numWorkers)

	logger := log.WithFields(log.Fields{
		"jobID":   jobID,
		"tasks":   len(payloads),
		"workers": numWorkers,
	})
	logger.Debug("dispatching job")

	var consumed int64
	queue := make(chan task[T], len(payloads))
	for i, payload := range payloads {
		queue <- task[T]{index: i, payload: payload}
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int, cred credpool.Credential) {
			defer wg.Done()

			workerLogger := logger.WithFields(log.Fields{
				"workerID":   workerID,
				"credential": cred.Masked(),
			})
			workerLogger.Debug("worker started")

			for t := range queue {
				results[t.index] = fn(ctx, cred, t.payload)
				atomic.AddInt64(&consumed, 1)
			}

			workerLogger.Debug("worker finished")
		}(w, assigned[w])
	}
	wg.Wait()

	stats := RunStats{
		JobID:    jobID,
		Workers:  numWorkers,
		Tasks:    len(payloads),
		Consumed: atomic.LoadInt64(&consumed),
		Duration: time.Since(startTime),
	}
	logger.WithField("duration", stats.Duration).Debug("job completed")
	return results, stats
}
