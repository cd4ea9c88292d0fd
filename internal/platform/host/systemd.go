package host

import (
	"context"
	"strings"
)

// Systemd manages host services through systemctl.
type Systemd struct {
	run Runner
}

// NewSystemd creates a systemd wrapper over the given runner.
func NewSystemd(run Runner) *Systemd {
	return &Systemd{run: run}
}

// Start starts the named service.
func (s *Systemd) Start(ctx context.Context, name string) error {
	_, err := s.run.Run(ctx, "systemctl", "start", name)
	return err
}

// Stop stops the named service.
func (s *Systemd) Stop(ctx context.Context, name string) error {
	_, err := s.run.Run(ctx, "systemctl", "stop", name)
	return err
}

// Enable enables the named service at boot.
func (s *Systemd) Enable(ctx context.Context, name string) error {
	_, err := s.run.Run(ctx, "systemctl", "enable", name)
	return err
}

// Disable disables the named service at boot.
func (s *Systemd) Disable(ctx context.Context, name string) error {
	_, err := s.run.Run(ctx, "systemctl", "disable", name)
	return err
}

// Restart restarts the named service.
func (s *Systemd) Restart(ctx context.Context, name string) error {
	_, err := s.run.Run(ctx, "systemctl", "restart", name)
	return err
}

// IsActive reports whether the named service is currently active.
// systemctl exits non-zero for inactive units, so the output is checked
// instead of the error.
func (s *Systemd) IsActive(ctx context.Context, name string) bool {
	out, _ := s.run.Run(ctx, "systemctl", "is-active", name)
	return strings.TrimSpace(out) == "active"
}
