// Package provisioning provides the transaction engine for a stack
// installation run: the ordered step sequencer with idempotent resume,
// the shared run context and persisted milestone state, and the error
// taxonomy that decides when a failure triggers rollback.
//
// # Subpackages
//
//   - rollback/ holds the tiered compensation registry, resource tracker, and executor
//   - steps/ holds the concrete provisioning steps wired to platform providers
//
// # Core Types
//
// Context carries configuration, outputs, the compensation registry and
// tracker, logger, and timeouts. Step defines a provisioning step with
// Probe() and Execute() methods. Pipeline drives steps in order and is
// the single point that decides to roll back.
package provisioning
