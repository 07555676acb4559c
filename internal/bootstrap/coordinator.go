package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// TracerName is the tracer used for bootstrap spans.
const TracerName = "github.com/mesh-intelligence/pinhole/bootstrap"

// Coordinator seeds one store exactly once per process, however many
// goroutines ask for it.
type Coordinator struct {
	uow     types.UnitOfWork
	cfg     Config
	tasks   []SeedTask
	logger  log.Logger
	probe   StoreProbe
	alerter Alerter
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time

	state State
	// guard is held for the whole locked sequence; it is never Lock()ed,
	// only TryLock()ed, so no caller blocks on it.
	guard      sync.Mutex
	checks     singleflight.Group
	background sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithStoreProbe sets the store existence probe consulted by IsInitialized.
func WithStoreProbe(probe StoreProbe) Option {
	return func(c *Coordinator) {
		c.probe = probe
	}
}

// WithAlerter sets the collaborator told about user settings failures.
func WithAlerter(alerter Alerter) Option {
	return func(c *Coordinator) {
		c.alerter = alerter
	}
}

// WithMetrics sets the metrics instruments.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = metrics
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// WithTasks replaces the built-in seed tasks. Passing no tasks leaves a
// coordinator that only manages the completion marker.
func WithTasks(tasks ...SeedTask) Option {
	return func(c *Coordinator) {
		c.tasks = append([]SeedTask{}, tasks...)
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// New creates a coordinator for uow. Zero Config fields take defaults.
func New(uow types.UnitOfWork, cfg Config, opts ...Option) (*Coordinator, error) {
	if uow == nil {
		return nil, fmt.Errorf("%w: unit of work is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		uow:    uow,
		cfg:    cfg.withDefaults(),
		logger: log.NewNoop(),
		tracer: otel.Tracer(TracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tasks == nil {
		c.tasks = DefaultTasks(c.now)
	}
	return c, nil
}

// Status returns the in-memory bootstrap status.
func (c *Coordinator) Status() Status {
	return c.state.Status()
}

// StartedAt returns when the current or most recent attempt began.
func (c *Coordinator) StartedAt() time.Time {
	return c.state.StartedAt()
}

// LastReport returns the report of the most recent seed pass, or nil if no
// pass has run in this process.
func (c *Coordinator) LastReport() *Report {
	return c.state.lastReport()
}

// Wait blocks until background marker writes started by IsInitialized have
// finished.
func (c *Coordinator) Wait() {
	c.background.Wait()
}

// IsInitialized reports whether the store has been seeded, checking the
// in-memory status, the store probe, the completion marker and finally
// legacy sample data, cheapest first. It never fails: store errors are
// logged and read as false. Concurrent callers share one store check.
func (c *Coordinator) IsInitialized(ctx context.Context) bool {
	switch c.state.Status() {
	case StatusCompleted:
		return true
	case StatusInProgress:
		return false
	}

	// The check is shared, so it must not die with the first caller's ctx.
	v, _, _ := c.checks.Do("store", func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.WaitTimeout)
		defer cancel()
		return c.checkStore(cctx), nil
	})
	initialized, _ := v.(bool)
	return initialized
}

func (c *Coordinator) checkStore(ctx context.Context) (initialized bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("initialization check panicked", log.Any("panic", r))
			initialized = false
		}
	}()

	if c.probe != nil && !c.probe.StoreExists(ctx) {
		c.logger.Debug("store does not exist")
		return false
	}

	_, err := c.uow.Settings().GetByKey(ctx, types.MarkerKey)
	switch {
	case err == nil:
		c.state.observeCompleted()
		return true
	case !errors.Is(err, types.ErrNotFound):
		c.logger.Warn("checking completion marker", log.Err(err))
		return false
	}

	// Legacy data only counts before this process has seeded anything.
	if c.state.hasAttempted() {
		return false
	}

	locations, err := c.uow.Locations().List(ctx, types.Page{Limit: 1})
	if err != nil {
		c.logger.Warn("checking for legacy data", log.Err(err))
		return false
	}
	if len(locations) == 0 {
		return false
	}

	if !c.state.observeCompleted() {
		// Another caller started seeding meanwhile; its outcome decides.
		return c.state.Status() == StatusCompleted
	}
	c.logger.Info("store has data but no completion marker, treating as initialized")
	c.selfHeal(ctx)
	return true
}

// selfHeal writes the missing completion marker in the background.
func (c *Coordinator) selfHeal(ctx context.Context) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.WaitTimeout)
		defer cancel()

		if err := c.writeMarker(ctx, c.now()); err != nil {
			c.logger.Warn("writing missing completion marker", log.Err(err))
			return
		}
		c.logger.Info("wrote missing completion marker")
	}()
}

// Bootstrap seeds the store unless it is already initialized. Exactly one
// caller runs the seed tasks; others wait up to WaitTimeout for it. Any
// returned error means the status was rolled back and a retry is safe.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	if c.state.Status() == StatusCompleted {
		return nil
	}

	ctx, span := c.tracer.Start(ctx, "pinhole.bootstrap")
	defer span.End()

	if !c.guard.TryLock() {
		acquired, err := c.waitForHolder(ctx)
		if err != nil {
			recordError(span, err)
			return err
		}
		if !acquired {
			span.SetAttributes(attribute.Bool("bootstrap.waited", true))
			return nil
		}
	}
	defer c.guard.Unlock()

	err := c.runLocked(ctx)
	recordError(span, err)
	return err
}

// waitForHolder polls the status while another caller holds the guard. It
// returns acquired=true when the holder rolled back and this caller took the
// guard over, and acquired=false with a nil error once the store completed.
func (c *Coordinator) waitForHolder(ctx context.Context) (acquired bool, err error) {
	c.logger.Debug("bootstrap in progress, waiting",
		log.Duration("timeout", c.cfg.WaitTimeout),
		log.Duration("poll_interval", c.cfg.PollInterval),
	)
	start := time.Now()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	timer := time.NewTimer(c.cfg.WaitTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, fmt.Errorf("waiting for bootstrap: %w", context.Cause(ctx))
		case <-timer.C:
			if c.state.Status() == StatusCompleted {
				return false, nil
			}
			c.metrics.RecordLockTimeout(ctx)
			waited := time.Since(start)
			c.logger.Error("timed out waiting for bootstrap", log.Duration("waited", waited))
			return false, &LockTimeoutError{Timeout: c.cfg.WaitTimeout, Waited: waited}
		case <-ticker.C:
			switch c.state.Status() {
			case StatusCompleted:
				return false, nil
			case StatusUninitialized:
				if c.guard.TryLock() {
					c.logger.Info("previous bootstrap rolled back, taking over")
					return true, nil
				}
			}
		}
	}
}

// runLocked is the guarded part of Bootstrap.
func (c *Coordinator) runLocked(ctx context.Context) (err error) {
	if c.IsInitialized(ctx) {
		return nil
	}

	started := c.now()
	c.state.begin(started)
	c.logger.Info("bootstrap started", log.Int("tasks", len(c.tasks)))

	defer func() {
		if r := recover(); r != nil {
			err = &FatalError{Cause: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			c.state.rollback()
			c.logger.Error("bootstrap failed, state rolled back", log.Err(err))
		}
	}()

	report, taskErr := c.runTasks(ctx)
	report.StartedAt = started
	report.FinishedAt = c.now()
	c.state.setReport(report)
	c.metrics.RecordBootstrap(ctx, report.Duration(), taskErr == nil)

	if taskErr != nil {
		return &FatalError{Cause: taskErr, Report: report}
	}
	if ctx.Err() != nil {
		return &FatalError{Cause: context.Cause(ctx), Report: report}
	}
	if failed := report.Failed(); failed > 0 {
		if c.cfg.Strict {
			return &IncompleteSeedError{Failed: failed, Report: report}
		}
		c.logger.Warn("seed finished with failed records", log.Int("failed", failed))
	}

	if err := c.writeMarker(ctx, report.FinishedAt); err != nil {
		c.logger.Error("writing completion marker", log.Err(err))
	}

	c.state.complete()
	c.logger.Info("bootstrap completed",
		log.Int("created", report.Created()),
		log.Int("skipped", report.Skipped()),
		log.Int("failed", report.Failed()),
		log.Duration("elapsed", report.Duration()),
	)
	return nil
}

// runTasks runs every seed task, in parallel when ConcurrentTasks is set,
// and returns the first fatal task error. Sequential runs stop at that
// task; in parallel runs it cancels the siblings.
func (c *Coordinator) runTasks(ctx context.Context) (*Report, error) {
	report := &Report{}

	if !c.cfg.ConcurrentTasks {
		for _, task := range c.tasks {
			res := c.runTask(ctx, task)
			report.Tasks = append(report.Tasks, *res)
			if res.Err != nil {
				return report, res.Err
			}
		}
		return report, nil
	}

	results := make([]*TaskResult, len(c.tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range c.tasks {
		g.Go(func() error {
			results[i] = c.runTask(gctx, task)
			return results[i].Err
		})
	}
	err := g.Wait()

	for _, res := range results {
		report.Tasks = append(report.Tasks, *res)
	}
	return report, err
}

// runTask runs one task, converting a panic into a fatal task error.
func (c *Coordinator) runTask(ctx context.Context, task SeedTask) (res *TaskResult) {
	res = &TaskResult{Name: task.Name}
	run := &TaskRun{
		uow:     c.uow,
		logger:  c.logger,
		metrics: c.metrics,
		result:  res,
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("seed task %s panicked: %v", task.Name, r)
		}
		if res.Err != nil {
			c.logger.Error("seed task failed", log.String("task", task.Name), log.Err(res.Err))
		}
	}()

	if err := task.Run(ctx, run); err != nil {
		res.Err = fmt.Errorf("seed task %s: %w", task.Name, err)
		return res
	}
	c.logger.Debug("seed task finished",
		log.String("task", task.Name),
		log.Int("created", res.Created),
		log.Int("skipped", res.Skipped),
		log.Int("failed", len(res.Failures)),
	)
	return res
}

func recordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bootstrap failed")
	}
}
