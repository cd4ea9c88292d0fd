package steps

import (
	"context"
	"fmt"
	"os"
)

// NetworkRemover removes a container network.
type NetworkRemover interface {
	RemoveNetwork(ctx context.Context, name string) error
}

// FirewallRestorer restores a firewall rule snapshot.
type FirewallRestorer interface {
	Restore(ctx context.Context, snapshot []byte) error
}

// ServiceController stops and disables host services.
type ServiceController interface {
	Stop(ctx context.Context, name string) error
	Disable(ctx context.Context, name string) error
}

// Operators implements rollback.Operators on top of the platform
// providers, translating each compensation action into its host effect.
type Operators struct {
	net NetworkRemover
	fw  FirewallRestorer
	svc ServiceController
}

// NewOperators creates the rollback operators for a run.
func NewOperators(net NetworkRemover, fw FirewallRestorer, svc ServiceController) *Operators {
	return &Operators{net: net, fw: fw, svc: svc}
}

// RemovePath removes a file or directory tree if present.
func (o *Operators) RemovePath(_ context.Context, path string) error {
	return os.RemoveAll(path)
}

// RemoveNetworkObject removes a container network.
func (o *Operators) RemoveNetworkObject(ctx context.Context, name string) error {
	if o.net == nil {
		return fmt.Errorf("no network remover configured")
	}
	return o.net.RemoveNetwork(ctx, name)
}

// StopService stops a host service.
func (o *Operators) StopService(ctx context.Context, name string) error {
	if o.svc == nil {
		return fmt.Errorf("no service controller configured")
	}
	return o.svc.Stop(ctx, name)
}

// DisableService disables a host service at boot.
func (o *Operators) DisableService(ctx context.Context, name string) error {
	if o.svc == nil {
		return fmt.Errorf("no service controller configured")
	}
	return o.svc.Disable(ctx, name)
}

// RestoreFirewallSnapshot restores the captured rule set.
func (o *Operators) RestoreFirewallSnapshot(ctx context.Context, snapshot []byte) error {
	if o.fw == nil {
		return fmt.Errorf("no firewall restorer configured")
	}
	return o.fw.Restore(ctx, snapshot)
}
