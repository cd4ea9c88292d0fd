// Package firewall drives the host firewall (UFW) and implements the
// administrative-access guard that must pass before the default policy
// switches to deny-incoming.
package firewall

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bertffff/stackup/internal/platform/host"
)

// DefaultRulesFile is UFW's persisted IPv4 rule store, used as the raw
// inspection path and for snapshot/restore.
const DefaultRulesFile = "/etc/ufw/user.rules"

// Rule is one parsed entry from the structured status listing.
type Rule struct {
	Port     int
	Protocol string
	Action   string
}

// UFW manages the host firewall through the ufw command line plus direct
// inspection of its persisted rule file.
type UFW struct {
	run       host.Runner
	rulesFile string
}

// NewUFW creates a UFW provider over the given runner.
func NewUFW(run host.Runner) *UFW {
	return &UFW{run: run, rulesFile: DefaultRulesFile}
}

// WithRulesFile overrides the persisted rule file location (tests).
func (u *UFW) WithRulesFile(path string) *UFW {
	u.rulesFile = path
	return u
}

// IsEnabled reports whether the firewall is active.
func (u *UFW) IsEnabled(ctx context.Context) (bool, error) {
	out, err := u.run.Run(ctx, "ufw", "status")
	if err != nil {
		return false, err
	}
	return strings.Contains(out, "Status: active"), nil
}

// AllowPort adds an allow rule for the port.
func (u *UFW) AllowPort(ctx context.Context, port int, proto, comment string) error {
	args := []string{"allow", fmt.Sprintf("%d/%s", port, proto)}
	if comment != "" {
		args = append(args, "comment", comment)
	}
	_, err := u.run.Run(ctx, "ufw", args...)
	return err
}

// DeletePort removes the allow rule for the port.
func (u *UFW) DeletePort(ctx context.Context, port int, proto string) error {
	_, err := u.run.Run(ctx, "ufw", "delete", "allow", fmt.Sprintf("%d/%s", port, proto))
	return err
}

// DefaultDenyIncoming switches the default incoming policy to deny.
// Callers must run the access guard first; this provider does not verify.
func (u *UFW) DefaultDenyIncoming(ctx context.Context) error {
	_, err := u.run.Run(ctx, "ufw", "default", "deny", "incoming")
	return err
}

// Enable activates the firewall non-interactively.
func (u *UFW) Enable(ctx context.Context) error {
	_, err := u.run.Run(ctx, "ufw", "--force", "enable")
	return err
}

// Disable deactivates the firewall.
func (u *UFW) Disable(ctx context.Context) error {
	_, err := u.run.Run(ctx, "ufw", "disable")
	return err
}

// StatusRules parses `ufw status` into structured rules. This is the
// first of the two independent inspection paths.
func (u *UFW) StatusRules(ctx context.Context) ([]Rule, error) {
	out, err := u.run.Run(ctx, "ufw", "status")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

// HasAllowRule reports whether the structured listing contains an allow
// rule for the port.
func (u *UFW) HasAllowRule(ctx context.Context, port int) (bool, error) {
	rules, err := u.StatusRules(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range rules {
		if r.Port == port && strings.HasPrefix(r.Action, "ALLOW") {
			return true, nil
		}
	}
	return false, nil
}

// RawHasPort inspects the persisted rule file for an accept rule on the
// port. This is the second, command-independent inspection path.
func (u *UFW) RawHasPort(port int) (bool, error) {
	data, err := os.ReadFile(u.rulesFile) // #nosec G304
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", u.rulesFile, err)
	}
	needle := fmt.Sprintf("--dport %d", port)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, needle) && strings.Contains(line, "ACCEPT") {
			return true, nil
		}
	}
	return false, nil
}

// Snapshot captures the persisted rule file for later restore.
func (u *UFW) Snapshot() ([]byte, error) {
	data, err := os.ReadFile(u.rulesFile) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot firewall rules: %w", err)
	}
	return data, nil
}

// Restore writes a previously captured snapshot back and reloads.
func (u *UFW) Restore(ctx context.Context, snapshot []byte) error {
	if err := os.WriteFile(u.rulesFile, snapshot, 0o640); err != nil { // #nosec G306 -- ufw's own file mode
		return fmt.Errorf("failed to restore firewall rules: %w", err)
	}
	_, err := u.run.Run(ctx, "ufw", "reload")
	return err
}

// parseStatus extracts rules from ufw status output. Lines look like:
//
//	22/tcp                     ALLOW       Anywhere
//	2053                       ALLOW       Anywhere (v6)
func parseStatus(out string) []Rule {
	var rules []Rule
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		action := fields[1]
		if action != "ALLOW" && action != "DENY" && action != "LIMIT" && action != "REJECT" {
			continue
		}

		target := fields[0]
		proto := ""
		if i := strings.IndexByte(target, '/'); i >= 0 {
			proto = target[i+1:]
			target = target[:i]
		}
		port, err := strconv.Atoi(target)
		if err != nil {
			continue
		}
		rules = append(rules, Rule{Port: port, Protocol: proto, Action: action})
	}
	return rules
}
