package steps

import (
	"context"
	"fmt"

	"github.com/bertffff/stackup/internal/provisioning"
)

// dockerServiceName is the systemd unit the engine package installs.
const dockerServiceName = "docker"

// ContainerRuntime is the slice of the docker surface the runtime step needs.
type ContainerRuntime interface {
	EngineReady(ctx context.Context) bool
	InstallEngine(ctx context.Context) error
}

// RuntimeStep installs the container engine.
type RuntimeStep struct {
	docker ContainerRuntime
}

// NewRuntimeStep creates the container runtime step.
func NewRuntimeStep(docker ContainerRuntime) *RuntimeStep {
	return &RuntimeStep{docker: docker}
}

// Name implements provisioning.Step.
func (s *RuntimeStep) Name() string { return "container runtime" }

// Milestone implements provisioning.Step.
func (s *RuntimeStep) Milestone() provisioning.Milestone { return provisioning.MilestoneRuntime }

// Probe reports whether the engine is already installed and responsive.
func (s *RuntimeStep) Probe(ctx *provisioning.Context) (bool, error) {
	return s.docker.EngineReady(ctx), nil
}

// Execute installs the engine. The service is tracked before the
// install begins, so a failure mid-install still stops and disables it.
func (s *RuntimeStep) Execute(ctx *provisioning.Context) error {
	ctx.Tracker.TrackService(dockerServiceName)

	installCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Install)
	defer cancel()

	if err := s.docker.InstallEngine(installCtx); err != nil {
		return err
	}
	if !s.docker.EngineReady(ctx) {
		return fmt.Errorf("engine installed but not responding")
	}
	return nil
}
