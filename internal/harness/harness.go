package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
	"github.com/roach88/aquaflow/internal/seed"
	"github.com/roach88/aquaflow/internal/store"
	"github.com/roach88/aquaflow/internal/testutil"
)

// ClockStep is how far the harness clock advances on each read.
const ClockStep = time.Second

// Harness is the test execution engine.
// It runs one scenario against a fresh store with a deterministic clock.
type Harness struct {
	store   *store.Store
	mutator *mutator.Mutator
	logger  *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
	start  time.Time
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStart sets the clock's first instant. Defaults to testutil.DemoTime.
func WithStart(t time.Time) Option {
	return func(c *runConfig) { c.start = t }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh memory store seeded with the demo document.
// Execution flow:
// 1. Seed the store and record the audit log length
// 2. Execute setup steps (any failure aborts the run)
// 3. Execute flow steps, comparing each outcome with its expectation
// 4. Evaluate assertions against the final document
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		start:  testutil.DemoTime,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clock := testutil.NewDeterministicClock(cfg.start, ClockStep)
	st := store.New(store.NewMemoryBackend(),
		store.WithLogger(cfg.logger),
		store.WithClock(clock),
		store.WithSeed(func() (*model.Document, error) { return seed.Demo(seed.Options{}) }),
	)
	defer st.Close()

	h := &Harness{
		store:   st,
		mutator: mutator.New(st, mutator.WithClock(clock), mutator.WithLogger(cfg.logger)),
		logger:  cfg.logger,
	}

	before, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}
	auditFrom := len(before.AuditLog)

	result := NewResult(scenario.Name)
	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	h.executeFlow(ctx, scenario.Flow, result)

	final, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final document: %w", err)
	}
	result.Audit = appendedAudit(final.AuditLog, auditFrom)

	for _, msg := range EvaluateAssertions(final, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// RunAll runs every scenario and returns results in input order.
func RunAll(ctx context.Context, scenarios []*Scenario, opts ...Option) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := Run(ctx, s, opts...)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// executeSetup runs all setup steps. Setup steps must succeed.
func (h *Harness) executeSetup(ctx context.Context, setup []Step, result *Result) error {
	for i, step := range setup {
		ev := result.AddTrace("setup", step)
		h.invoke(ctx, step, ev)
		if ev.Outcome != OutcomeOK {
			return fmt.Errorf("setup step %d (%s): %s", i, step.Invoke, ev.Error)
		}
	}
	return nil
}

// executeFlow runs all flow steps and compares each outcome with its expectation.
// A mismatch is recorded and the flow continues.
func (h *Harness) executeFlow(ctx context.Context, flow []Step, result *Result) {
	for i, step := range flow {
		ev := result.AddTrace("flow", step)
		h.invoke(ctx, step, ev)

		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if ev.Outcome != want {
			msg := fmt.Sprintf("flow[%d] %s: expected %s, got %s", i, step.Invoke, want, ev.Outcome)
			if ev.Error != "" {
				msg += " (" + ev.Error + ")"
			}
			result.AddError(msg)
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Invoke,
			"outcome", ev.Outcome,
		)
	}
}

func (h *Harness) invoke(ctx context.Context, step Step, ev *TraceEvent) {
	act, ok := actions[step.Invoke]
	if !ok {
		ev.Outcome = OutcomeError
		ev.Error = fmt.Sprintf("unknown action %q", step.Invoke)
		return
	}
	rec, err := act(ctx, h.mutator, &step.Args)
	ev.Outcome = classify(err)
	if err != nil {
		ev.Error = err.Error()
		return
	}
	if rec != nil {
		ev.RecordID = rec.RecordID()
	}
}

// classify maps a mutator error to an Outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case mutator.IsNotFound(err):
		return OutcomeNotFound
	case mutator.IsValidation(err):
		return OutcomeValidation
	case mutator.IsTransition(err):
		return OutcomeTransition
	case mutator.IsNotConfirmed(err):
		return OutcomeNotConfirmed
	default:
		return OutcomeError
	}
}

// appendedAudit returns the entries added after the first n. A cleared log
// is returned whole.
func appendedAudit(log []model.AuditEntry, n int) []model.AuditEntry {
	if n > len(log) {
		n = 0
	}
	out := make([]model.AuditEntry, len(log)-n)
	copy(out, log[n:])
	return out
}
