package steps

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bertffff/stackup/internal/platform/tunnel"
	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/util/retry"
)

// accountFileName holds the registered tunnel account in the state dir.
const accountFileName = "tunnel-account.json"

// TunnelRegistrar is the slice of the tunnel surface the step needs.
type TunnelRegistrar interface {
	Register(ctx context.Context) (*tunnel.Account, error)
}

// TunnelStep registers the outbound tunnel account and publishes its
// panel outbound translation.
type TunnelStep struct {
	client TunnelRegistrar
}

// NewTunnelStep creates the tunnel step.
func NewTunnelStep(client TunnelRegistrar) *TunnelStep {
	return &TunnelStep{client: client}
}

// Name implements provisioning.Step.
func (s *TunnelStep) Name() string { return "tunnel account" }

// Milestone implements provisioning.Step.
func (s *TunnelStep) Milestone() provisioning.Milestone { return provisioning.MilestoneTunnel }

func (s *TunnelStep) path(ctx *provisioning.Context) string {
	return filepath.Join(ctx.Config.StateDir, accountFileName)
}

// Probe reports whether an account is already registered, hydrating the
// outbound output from the persisted file when it is.
func (s *TunnelStep) Probe(ctx *provisioning.Context) (bool, error) {
	acc, err := tunnel.LoadAccount(s.path(ctx))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		ctx.Log.Warnf("ignoring unreadable tunnel account file: %v", err)
		return false, nil
	}

	outbound, err := tunnel.OutboundJSON(acc)
	if err != nil {
		return false, err
	}
	ctx.Outputs.TunnelOutboundJSON = outbound
	return true, nil
}

// Execute registers the account with bounded retries and persists it.
func (s *TunnelStep) Execute(ctx *provisioning.Context) error {
	var acc *tunnel.Account
	err := retry.WithExponentialBackoff(ctx, func() error {
		var rerr error
		acc, rerr = s.client.Register(ctx)
		return rerr
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return err
	}

	path := s.path(ctx)
	ctx.Tracker.TrackPath(path)
	if err := tunnel.SaveAccount(path, acc); err != nil {
		return err
	}

	outbound, err := tunnel.OutboundJSON(acc)
	if err != nil {
		return err
	}
	ctx.Outputs.TunnelOutboundJSON = outbound
	return nil
}
