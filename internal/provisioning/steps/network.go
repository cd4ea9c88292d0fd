package steps

import (
	"context"
	"fmt"

	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

// NetworkManager is the slice of the docker surface the network step needs.
type NetworkManager interface {
	NetworkExists(ctx context.Context, name string) (bool, error)
	CreateNetwork(ctx context.Context, name, subnet string) error
}

// NetworkStep creates the isolated container network.
type NetworkStep struct {
	docker NetworkManager
}

// NewNetworkStep creates the network step.
func NewNetworkStep(docker NetworkManager) *NetworkStep {
	return &NetworkStep{docker: docker}
}

// Name implements provisioning.Step.
func (s *NetworkStep) Name() string { return "container network" }

// Milestone implements provisioning.Step.
func (s *NetworkStep) Milestone() provisioning.Milestone { return provisioning.MilestoneNetwork }

// Probe reports whether the network already exists.
func (s *NetworkStep) Probe(ctx *provisioning.Context) (bool, error) {
	return s.docker.NetworkExists(ctx, ctx.Config.Network.Name)
}

// Execute creates the network, registering its removal first.
func (s *NetworkStep) Execute(ctx *provisioning.Context) error {
	name := ctx.Config.Network.Name

	ctx.Registry.Register(fmt.Sprintf("remove container network %s", name),
		rollback.RemoveNetworkObject(name), rollback.TierNormal)

	return s.docker.CreateNetwork(ctx, name, ctx.Config.Network.Subnet)
}
