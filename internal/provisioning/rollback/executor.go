package rollback

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Operators performs the host-side effects of compensation actions.
// Implementations live next to the concrete platform providers; the
// executor itself only sequences.
type Operators interface {
	RemovePath(ctx context.Context, path string) error
	RemoveNetworkObject(ctx context.Context, name string) error
	StopService(ctx context.Context, name string) error
	DisableService(ctx context.Context, name string) error
	RestoreFirewallSnapshot(ctx context.Context, snapshot []byte) error
}

// Summary reports what a rollback accomplished. Failures are recorded,
// never re-raised; a compensation failure must not abort the remaining
// compensations.
type Summary struct {
	Executed int
	Failed   []string
}

// Clean reports whether every compensation and sweep succeeded.
func (s Summary) Clean() bool {
	return len(s.Failed) == 0
}

// Executor consumes a registry and tracker after a failed run and undoes
// partial work: tracked services stop first so nothing keeps mutating
// state, then each tier drains LIFO, then tracked paths are swept.
type Executor struct {
	registry *Registry
	tracker  *Tracker
	ops      Operators
	log      logrus.FieldLogger
}

// NewExecutor creates a rollback executor over the given registry and tracker.
func NewExecutor(registry *Registry, tracker *Tracker, ops Operators, log logrus.FieldLogger) *Executor {
	return &Executor{registry: registry, tracker: tracker, ops: ops, log: log}
}

// Run executes the full rollback. It never returns an error: each
// failure is logged as a warning and recorded in the summary, and the
// remaining compensations still run.
func (e *Executor) Run(ctx context.Context) Summary {
	var summary Summary

	for _, name := range e.tracker.Services() {
		e.log.Infof("rollback: stopping service %s", name)
		if err := e.stopAndDisable(ctx, name); err != nil {
			e.record(&summary, fmt.Sprintf("stop service %s", name), err)
			continue
		}
		summary.Executed++
	}

	for _, tier := range Tiers {
		for _, comp := range e.registry.Drain(tier) {
			e.log.Infof("rollback [%s]: %s", tier, comp.Description)
			if err := e.apply(ctx, comp.Action); err != nil {
				e.record(&summary, comp.Description, err)
				continue
			}
			summary.Executed++
		}
	}

	for _, path := range e.tracker.Paths() {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		e.log.Infof("rollback: removing %s", path)
		if err := e.ops.RemovePath(ctx, path); err != nil {
			e.record(&summary, fmt.Sprintf("remove %s", path), err)
			continue
		}
		summary.Executed++
	}

	return summary
}

func (e *Executor) stopAndDisable(ctx context.Context, name string) error {
	if err := e.ops.StopService(ctx, name); err != nil {
		return err
	}
	return e.ops.DisableService(ctx, name)
}

func (e *Executor) apply(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionRemovePath:
		return e.ops.RemovePath(ctx, action.Path)
	case ActionRemoveNetworkObject:
		return e.ops.RemoveNetworkObject(ctx, action.Network)
	case ActionDisableService:
		return e.stopAndDisable(ctx, action.Service)
	case ActionRestoreFirewallSnapshot:
		return e.ops.RestoreFirewallSnapshot(ctx, action.Snapshot)
	case ActionRunCallback:
		return action.Callback(ctx)
	default:
		return fmt.Errorf("unknown compensation action kind %d", action.Kind)
	}
}

func (e *Executor) record(summary *Summary, description string, err error) {
	e.log.Warnf("rollback: %s failed: %v", description, err)
	summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", description, err))
}
