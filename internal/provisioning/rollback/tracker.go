package rollback

// Tracker records filesystem paths created and host services started
// during a run, for best-effort cleanup if the run fails. Like the
// registry it is single-writer and preserves registration order.
type Tracker struct {
	paths    []string
	services []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// TrackPath records a created file or directory.
func (t *Tracker) TrackPath(path string) {
	t.paths = append(t.paths, path)
}

// TrackService records a started service.
func (t *Tracker) TrackService(name string) {
	t.services = append(t.services, name)
}

// Paths returns the tracked paths in registration order.
func (t *Tracker) Paths() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Services returns the tracked services in registration order.
func (t *Tracker) Services() []string {
	out := make([]string, len(t.services))
	copy(out, t.services)
	return out
}
