package provisioning

// Step defines one unit of provisioning work. A step that mutates host
// state must register a compensation in the registry (and tracked
// resources in the tracker) before, or atomically with, each mutation.
type Step interface {
	// Name returns the human-readable name of this step.
	Name() string

	// Milestone returns the persisted flag this step completes.
	Milestone() Milestone

	// Probe reports whether the step's goal state already holds on the
	// live host. Probes must not mutate anything.
	Probe(ctx *Context) (bool, error)

	// Execute performs the step's work, publishing results into
	// ctx.Outputs for later steps.
	Execute(ctx *Context) error
}

// Degradable is implemented by steps whose health-check failure may be
// accepted by the operator instead of triggering rollback. Accepting
// suppresses rollback for that step only; the run continues and the
// step's milestone stays unset so a later run retries it.
type Degradable interface {
	// DegradedPrompt returns the question shown to the operator when the
	// step's health check fails.
	DegradedPrompt() string
}

// Prompter asks the operator a yes/no question. Non-interactive
// implementations answer without blocking (declining unless an
// assume-yes flag was given).
type Prompter interface {
	Confirm(title, description string) (bool, error)
}
