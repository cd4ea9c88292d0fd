// Package rollback implements the compensating-undo machinery for a
// provisioning run: a tiered, append-only registry of compensation
// actions, a tracker for created paths and started services, and an
// executor that drains both on failure.
//
// Compensations are registered before (or atomically with) the mutation
// they undo, so that a failure at any point leaves the registry
// describing exactly the state that must be reverted.
package rollback
