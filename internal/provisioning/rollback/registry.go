package rollback

// Tier is the priority class of a compensation. On rollback the Critical
// tier drains first, then Normal, then Cleanup.
type Tier int

const (
	// TierCritical holds access- and safety-related compensations
	// (firewall restore). Within the tier the first registration
	// executes last under LIFO, making it the final safety net.
	TierCritical Tier = iota
	// TierNormal holds general resource compensations (networks, services).
	TierNormal
	// TierCleanup holds file removals.
	TierCleanup
)

// Tiers lists all tiers in drain order.
var Tiers = []Tier{TierCritical, TierNormal, TierCleanup}

// String returns the tier name for logging.
func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierNormal:
		return "normal"
	case TierCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// Compensation is one registered undo operation.
type Compensation struct {
	Description string
	Action      Action
	Tier        Tier
}

// Registry is the append-only, tiered list of compensations for a single
// run. It is owned by the orchestrator and written only from the run's
// single execution goroutine; no locking is required, but registration
// order within a tier must be preserved.
type Registry struct {
	entries map[Tier][]Compensation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Tier][]Compensation)}
}

// Register appends a compensation to its tier. Callers register before
// performing the mutation the compensation undoes.
func (r *Registry) Register(description string, action Action, tier Tier) {
	r.entries[tier] = append(r.entries[tier], Compensation{
		Description: description,
		Action:      action,
		Tier:        tier,
	})
}

// Drain returns the tier's compensations in LIFO order and clears the
// tier. There is no other removal API.
func (r *Registry) Drain(tier Tier) []Compensation {
	entries := r.entries[tier]
	delete(r.entries, tier)

	drained := make([]Compensation, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		drained = append(drained, entries[i])
	}
	return drained
}

// Len returns the total number of registered compensations across all tiers.
func (r *Registry) Len() int {
	n := 0
	for _, entries := range r.entries {
		n += len(entries)
	}
	return n
}
