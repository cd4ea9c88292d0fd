package firewall

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AccessFirewall is the slice of the firewall surface the guard needs.
type AccessFirewall interface {
	AllowPort(ctx context.Context, port int, proto, comment string) error
	HasAllowRule(ctx context.Context, port int) (bool, error)
	RawHasPort(port int) (bool, error)
}

// Guard verifies that a rule permitting the active remote-access port
// exists before the default policy may switch to deny-incoming. Losing
// remote access mid-run is the one unrecoverable failure, so the rule is
// checked through two independent inspection paths: the structured
// status listing and the raw persisted rule file.
type Guard struct {
	fw  AccessFirewall
	log logrus.FieldLogger
}

// NewGuard creates an administrative-access guard.
func NewGuard(fw AccessFirewall, log logrus.FieldLogger) *Guard {
	return &Guard{fw: fw, log: log}
}

// EnsureAccessPreserved adds an allow rule for the remote-access port if
// absent and verifies it through both inspection paths, making one
// explicit add-and-recheck attempt. If either path still cannot see the
// rule, it returns an error and the caller must refuse to enable
// default-deny.
func (g *Guard) EnsureAccessPreserved(ctx context.Context, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid remote-access port %d", port)
	}

	if ok, err := g.verifyBoth(ctx, port); err == nil && ok {
		g.log.Infof("remote-access rule for port %d verified", port)
		return nil
	}

	g.log.Infof("adding allow rule for remote-access port %d", port)
	if err := g.fw.AllowPort(ctx, port, "tcp", "stackup remote access"); err != nil {
		return fmt.Errorf("failed to add remote-access rule: %w", err)
	}

	ok, err := g.verifyBoth(ctx, port)
	if err != nil {
		return fmt.Errorf("remote-access rule verification failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("remote-access rule for port %d could not be verified through both inspection paths; refusing to enable default-deny", port)
	}

	g.log.Infof("remote-access rule for port %d verified after add", port)
	return nil
}

func (g *Guard) verifyBoth(ctx context.Context, port int) (bool, error) {
	listed, err := g.fw.HasAllowRule(ctx, port)
	if err != nil {
		return false, fmt.Errorf("status inspection: %w", err)
	}
	raw, err := g.fw.RawHasPort(port)
	if err != nil {
		return false, fmt.Errorf("rule-file inspection: %w", err)
	}
	return listed && raw, nil
}
