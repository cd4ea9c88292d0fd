package provisioning

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Milestone identifies a major installation step whose completion is
// recorded persistently, enabling idempotent resume after a partial run.
type Milestone string

const (
	MilestoneRuntime     Milestone = "runtime"
	MilestoneNetwork     Milestone = "network"
	MilestoneFirewall    Milestone = "firewall"
	MilestoneCertificate Milestone = "certificate"
	MilestoneKeys        Milestone = "keys"
	MilestoneTunnel      Milestone = "tunnel"
	MilestoneDNSService  Milestone = "dns-service"
	MilestonePanel       Milestone = "panel"
)

// State is the persisted installation state: one boolean flag per
// milestone. It is owned by the pipeline; each flag is written only by
// the step that completes the corresponding milestone, and the file is
// rewritten after every change so a re-invocation can resume.
type State struct {
	path       string
	Milestones map[Milestone]bool `yaml:"milestones"`
}

// LoadState reads the state file, returning a fresh state if the file
// does not exist yet.
func LoadState(path string) (*State, error) {
	st := &State{path: path, Milestones: make(map[Milestone]bool)}

	data, err := os.ReadFile(path) // #nosec G304
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if st.Milestones == nil {
		st.Milestones = make(map[Milestone]bool)
	}
	return st, nil
}

// Done reports whether the milestone's flag is set.
func (s *State) Done(m Milestone) bool {
	return s.Milestones[m]
}

// Set updates a milestone flag in memory. Save persists it.
func (s *State) Set(m Milestone, done bool) {
	s.Milestones[m] = done
}

// Save writes the state file with restrictive permissions.
func (s *State) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Path returns the location of the persisted state file.
func (s *State) Path() string {
	return s.path
}
