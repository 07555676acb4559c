package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

func newTestRun(name string, logger *captureLogger) *TaskRun {
	return &TaskRun{
		uow:    newFakeStore(),
		logger: logger,
		result: &TaskResult{Name: name},
	}
}

func TestTaskRun_Record(t *testing.T) {
	logger := &captureLogger{}
	run := newTestRun("settings", logger)
	ctx := context.Background()

	assert.Equal(t, OutcomeCreated, run.Record(ctx, "setting A", nil))
	assert.Equal(t, OutcomeSkipped, run.Record(ctx, "setting B", types.ErrDuplicateKey))
	assert.Equal(t, OutcomeFailed, run.Record(ctx, "setting C", errors.New("disk full")))

	res := run.Result()
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "setting C", res.Failures[0].Record)

	assert.Empty(t, logger.warningsFor("setting A"))
	assert.Len(t, logger.warningsFor("setting B"), 1)
	assert.Len(t, logger.warningsFor("setting C"), 1)
}

func TestSeed_StopsOnCancelledContext(t *testing.T) {
	run := newTestRun("numbers", &captureLogger{})
	ctx, cancel := context.WithCancel(context.Background())

	var seen []int
	err := Seed(ctx, run, []int{1, 2, 3},
		func(n int) string { return "n" },
		func(_ context.Context, n int) error {
			seen = append(seen, n)
			if n == 2 {
				cancel()
			}
			return nil
		},
	)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, run.Result().Created)
}

func TestReport_Totals(t *testing.T) {
	r := &Report{Tasks: []TaskResult{
		{Name: "a", Created: 3, Skipped: 1},
		{Name: "b", Created: 2, Failures: []RecordFailure{{Record: "x"}, {Record: "y"}}},
	}}
	assert.Equal(t, 5, r.Created())
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, 2, r.Failed())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StatusUninitialized.String())
	assert.Equal(t, "in_progress", StatusInProgress.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "unknown", Status(9).String())
}
