package steps

import (
	"context"

	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

// proxyPort is the public port the proxy inbound listens on.
const proxyPort = 443

// FirewallProvider is the slice of the firewall surface the step needs.
type FirewallProvider interface {
	IsEnabled(ctx context.Context) (bool, error)
	HasAllowRule(ctx context.Context, port int) (bool, error)
	AllowPort(ctx context.Context, port int, proto, comment string) error
	DefaultDenyIncoming(ctx context.Context) error
	Enable(ctx context.Context) error
	Snapshot() ([]byte, error)
}

// AccessGuard verifies remote access survives the policy switch.
type AccessGuard interface {
	EnsureAccessPreserved(ctx context.Context, port int) error
}

// FirewallStep configures the firewall: remote access preserved first,
// then the stack's ports opened, then default-deny enabled.
type FirewallStep struct {
	fw    FirewallProvider
	guard AccessGuard
}

// NewFirewallStep creates the firewall step.
func NewFirewallStep(fw FirewallProvider, guard AccessGuard) *FirewallStep {
	return &FirewallStep{fw: fw, guard: guard}
}

// Name implements provisioning.Step.
func (s *FirewallStep) Name() string { return "firewall" }

// Milestone implements provisioning.Step.
func (s *FirewallStep) Milestone() provisioning.Milestone { return provisioning.MilestoneFirewall }

// Probe reports whether the firewall is already enabled with both the
// remote-access rule and the stack's allow rules in place. An enabled
// firewall that predates the run and only allows remote access does not
// satisfy the step; the stack ports still have to be opened.
func (s *FirewallStep) Probe(ctx *provisioning.Context) (bool, error) {
	enabled, err := s.fw.IsEnabled(ctx)
	if err != nil {
		return false, err
	}
	if !enabled {
		return false, nil
	}

	ports := []int{ctx.Outputs.SSHPort, proxyPort, ctx.Config.Panel.Port}
	if ctx.Config.DNS.Enabled {
		ports = append(ports, 53)
	}
	for _, port := range ports {
		ok, err := s.fw.HasAllowRule(ctx, port)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Execute switches the firewall to default-deny with the stack's ports
// open. Order matters:
//
//  1. The access guard runs first, adding and double-verifying the
//     remote-access rule. If it cannot verify, the step fails here and
//     no policy change happens.
//  2. The rule snapshot is captured after the access rule exists, so
//     the Critical-tier restore keeps remote access intact. It is the
//     first Critical registration and therefore the last compensation
//     to run.
//  3. Only then are the stack ports opened and default-deny enabled.
func (s *FirewallStep) Execute(ctx *provisioning.Context) error {
	if err := s.guard.EnsureAccessPreserved(ctx, ctx.Outputs.SSHPort); err != nil {
		return err
	}

	snapshot, err := s.fw.Snapshot()
	if err != nil {
		return err
	}
	ctx.Registry.Register("restore previous firewall configuration",
		rollback.RestoreFirewallSnapshot(snapshot), rollback.TierCritical)

	type rule struct {
		port    int
		proto   string
		comment string
	}
	rules := []rule{
		{proxyPort, "tcp", "proxy inbound"},
		{ctx.Config.Panel.Port, "tcp", "management panel"},
	}
	if ctx.Config.DNS.Enabled {
		rules = append(rules,
			rule{53, "tcp", "dns"},
			rule{53, "udp", "dns"},
		)
	}
	for _, extra := range ctx.Config.Firewall.ExtraPorts {
		rules = append(rules, rule{extra.Port, extra.Protocol, extra.Comment})
	}

	for _, r := range rules {
		if err := s.fw.AllowPort(ctx, r.port, r.proto, r.comment); err != nil {
			return err
		}
	}

	if err := s.fw.DefaultDenyIncoming(ctx); err != nil {
		return err
	}
	return s.fw.Enable(ctx)
}
