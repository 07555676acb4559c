package bootstrap

import (
	"context"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// SeedTask is one independently failable unit of seed work. Run records
// per-record outcomes on the TaskRun; an error returned from Run is fatal
// for the whole bootstrap attempt.
type SeedTask struct {
	Name string
	Run  func(ctx context.Context, run *TaskRun) error
}

// RecordOutcome is what happened to one seed record.
type RecordOutcome string

const (
	OutcomeCreated RecordOutcome = "created"
	OutcomeSkipped RecordOutcome = "skipped"
	OutcomeFailed  RecordOutcome = "failed"
)

// RecordFailure describes one record that could not be created.
type RecordFailure struct {
	Task   string
	Record string
	Err    error
}

// TaskResult summarizes one task's run. Err is set only when the task
// failed fatally.
type TaskResult struct {
	Name     string
	Created  int
	Skipped  int
	Failures []RecordFailure
	Err      error
}

// Report is the outcome of one bootstrap attempt.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Tasks      []TaskResult
}

func (r *Report) Created() int {
	n := 0
	for _, t := range r.Tasks {
		n += t.Created
	}
	return n
}

func (r *Report) Skipped() int {
	n := 0
	for _, t := range r.Tasks {
		n += t.Skipped
	}
	return n
}

func (r *Report) Failed() int {
	n := 0
	for _, t := range r.Tasks {
		n += len(t.Failures)
	}
	return n
}

// Duration is FinishedAt minus StartedAt.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TaskRun is handed to SeedTask.Run. It gives the task its store and
// records per-record outcomes into the task's result.
type TaskRun struct {
	uow     types.UnitOfWork
	logger  log.Logger
	metrics *Metrics
	result  *TaskResult
}

// Store returns the unit of work the task seeds into.
func (r *TaskRun) Store() types.UnitOfWork {
	return r.uow
}

// Result returns the result being accumulated for this task.
func (r *TaskRun) Result() *TaskResult {
	return r.result
}

// Record classifies the error from creating one record and logs a single
// warning for anything that was not created. Duplicates count as skipped
// so that a retried seed converges.
func (r *TaskRun) Record(ctx context.Context, record string, err error) RecordOutcome {
	outcome := OutcomeCreated
	switch {
	case err == nil:
		r.result.Created++
	case types.IsDuplicate(err):
		outcome = OutcomeSkipped
		r.result.Skipped++
		r.logger.Warn("seed record already exists, skipping",
			log.String("task", r.result.Name),
			log.String("record", record),
		)
	default:
		outcome = OutcomeFailed
		r.result.Failures = append(r.result.Failures, RecordFailure{
			Task:   r.result.Name,
			Record: record,
			Err:    err,
		})
		r.logger.Warn("seed record failed",
			log.String("task", r.result.Name),
			log.String("record", record),
			log.Err(err),
		)
	}
	r.metrics.RecordSeedRecord(ctx, r.result.Name, outcome)
	return outcome
}

// Seed creates each record in order and records its outcome. It stops and
// returns the context's cause only when ctx is done; record failures never
// abort the loop.
func Seed[T any](ctx context.Context, run *TaskRun, records []T, label func(T) string, create func(context.Context, T) error) error {
	for _, rec := range records {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		run.Record(ctx, label(rec), create(ctx, rec))
	}
	return nil
}
