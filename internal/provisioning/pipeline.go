package provisioning

import (
	"fmt"
	"time"

	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

// StepStatus tracks a single step through the run.
type StepStatus int

const (
	StatusPending StepStatus = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	// StatusSkipped marks a step whose goal state already held; skipped
	// steps register no compensations.
	StatusSkipped
	// StatusDegraded marks a step whose health check failed but whose
	// partial state the operator chose to keep. Not a failure for
	// sequencing purposes; the milestone stays unset.
	StatusDegraded
)

// String returns the status name for logging and reports.
func (s StepStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// RunState tracks the overall run.
type RunState int

const (
	RunNotStarted RunState = iota
	RunInProgress
	RunCompleted
	RunRolledBack
)

// String returns the run state name.
func (s RunState) String() string {
	switch s {
	case RunNotStarted:
		return "not-started"
	case RunInProgress:
		return "in-progress"
	case RunCompleted:
		return "completed"
	case RunRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// StepReport records one step's outcome.
type StepReport struct {
	Name   string
	Status StepStatus
	Err    error
}

// Report summarizes a run: the final run state, per-step outcomes, and
// the rollback summary if one was performed.
type Report struct {
	Run      RunState
	Steps    []StepReport
	Rollback *rollback.Summary
}

// Pipeline drives an ordered list of steps. It is the single point that
// decides to roll back: the first unrecovered step failure cancels all
// pending steps, invokes the rollback executor, and ends the run.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline over the given steps, executed in order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps sequentially. On success the registry and
// tracker are discarded un-swept: the installation's artifacts are the
// intended final state. On failure the executor drains them and the
// returned error is non-nil.
func (p *Pipeline) Run(ctx *Context, executor *rollback.Executor) (*Report, error) {
	report := &Report{Run: RunInProgress}
	start := time.Now()
	ctx.Log.Infof("starting provisioning run with %d steps", len(p.steps))

	for i, step := range p.steps {
		label := fmt.Sprintf("%s (%d/%d)", step.Name(), i+1, len(p.steps))

		done, err := p.alreadyDone(ctx, step)
		if err != nil {
			report.Steps = append(report.Steps, StepReport{Name: step.Name(), Status: StatusFailed, Err: err})
			return p.rollBack(ctx, executor, report, fmt.Errorf("%s probe failed: %w", step.Name(), err))
		}
		if done {
			ctx.Log.Infof("[%s] already satisfied, skipping", label)
			report.Steps = append(report.Steps, StepReport{Name: step.Name(), Status: StatusSkipped})
			continue
		}

		ctx.Log.Infof("[%s] starting", label)
		stepStart := time.Now()

		if err := step.Execute(ctx); err != nil {
			if status, ok := p.tryDegradedContinue(ctx, step, err); ok {
				report.Steps = append(report.Steps, StepReport{Name: step.Name(), Status: status, Err: err})
				continue
			}
			ctx.Log.Errorf("[%s] failed: %v", label, err)
			report.Steps = append(report.Steps, StepReport{Name: step.Name(), Status: StatusFailed, Err: err})
			return p.rollBack(ctx, executor, report, fmt.Errorf("%s step failed: %w", step.Name(), err))
		}

		ctx.State.Set(step.Milestone(), true)
		if err := ctx.State.Save(); err != nil {
			// A lost flag only means the step re-probes on the next run.
			ctx.Log.Warnf("[%s] could not persist state: %v", label, err)
		}

		ctx.Log.Infof("[%s] completed in %v", label, time.Since(stepStart).Round(time.Millisecond))
		report.Steps = append(report.Steps, StepReport{Name: step.Name(), Status: StatusSucceeded})
	}

	report.Run = RunCompleted
	ctx.Log.Infof("provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// alreadyDone is the two-source idempotency check: the persisted
// milestone flag and a live probe of the collaborator. When they
// disagree the live probe wins and the flag is corrected, guarding
// against stale flags after out-of-band changes.
func (p *Pipeline) alreadyDone(ctx *Context, step Step) (bool, error) {
	flag := ctx.State.Done(step.Milestone())
	live, err := step.Probe(ctx)
	if err != nil {
		return false, err
	}

	if live != flag {
		if flag {
			ctx.Log.Warnf("[%s] state flag set but live probe disagrees, re-running", step.Name())
		}
		ctx.State.Set(step.Milestone(), live)
		if err := ctx.State.Save(); err != nil {
			ctx.Log.Warnf("[%s] could not persist corrected state: %v", step.Name(), err)
		}
	}
	return live, nil
}

// tryDegradedContinue offers the degraded-continue decision for steps
// that support it. Only health-check failures qualify; acceptance
// suppresses rollback for this step alone and leaves its partial state
// in place.
func (p *Pipeline) tryDegradedContinue(ctx *Context, step Step, err error) (StepStatus, bool) {
	deg, ok := step.(Degradable)
	if !ok {
		return StatusFailed, false
	}
	hc, ok := AsHealthCheck(err)
	if !ok {
		return StatusFailed, false
	}

	ctx.Log.Warnf("[%s] health check failed: %v", step.Name(), hc)
	proceed, perr := ctx.Prompter.Confirm("Continue without "+step.Name()+"?", deg.DegradedPrompt())
	if perr != nil || !proceed {
		return StatusFailed, false
	}

	ctx.Log.Warnf("[%s] continuing in degraded mode; step will be retried on the next run", step.Name())
	return StatusDegraded, true
}

// rollBack transitions the run to RolledBack, drains the registry and
// tracker, and returns the original failure.
func (p *Pipeline) rollBack(ctx *Context, executor *rollback.Executor, report *Report, cause error) (*Report, error) {
	report.Run = RunRolledBack
	ctx.Log.Errorf("provisioning failed, rolling back: %v", cause)

	summary := executor.Run(ctx)
	report.Rollback = &summary

	if summary.Clean() {
		ctx.Log.Infof("rollback finished: %d actions executed", summary.Executed)
	} else {
		ctx.Log.Warnf("rollback finished with %d failures (%d actions executed)", len(summary.Failed), summary.Executed)
	}
	return report, cause
}
