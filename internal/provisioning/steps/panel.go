package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bertffff/stackup/internal/platform/docker"
	"github.com/bertffff/stackup/internal/platform/panel"
	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
	"github.com/bertffff/stackup/internal/util/keygen"
)

// envFileName holds the panel container environment in the state dir.
const envFileName = "panel.env"

// PanelRuntime is the slice of the docker surface the panel step needs.
type PanelRuntime interface {
	RunContainer(ctx context.Context, opts docker.RunOptions) error
	ContainerRunning(ctx context.Context, name string) (bool, error)
	RemoveContainer(ctx context.Context, name string) error
	RestartContainer(ctx context.Context, name string) error
}

// PanelAPI is the management API surface the step drives after the
// container is healthy.
type PanelAPI interface {
	Login(ctx context.Context, username, password string) error
	AddInbound(ctx context.Context, in panel.Inbound) error
	PushOutbound(ctx context.Context, outboundJSON string) error
	Healthy(ctx context.Context, interval, timeout time.Duration) error
}

// PanelStep deploys the management panel container and pushes the
// inbound and outbound configuration through its API.
type PanelStep struct {
	docker PanelRuntime
	// newAPI builds the API client once the panel's address is known.
	newAPI func(baseURL string) (PanelAPI, error)
}

// NewPanelStep creates the panel step.
func NewPanelStep(d PanelRuntime, newAPI func(baseURL string) (PanelAPI, error)) *PanelStep {
	return &PanelStep{docker: d, newAPI: newAPI}
}

// Name implements provisioning.Step.
func (s *PanelStep) Name() string { return "management panel" }

// Milestone implements provisioning.Step.
func (s *PanelStep) Milestone() provisioning.Milestone { return provisioning.MilestonePanel }

// DegradedPrompt implements provisioning.Degradable: a panel that fails
// its health check can still be repaired through a later run while the
// already-provisioned services keep working.
func (s *PanelStep) DegradedPrompt() string {
	return "The management panel did not pass its health check. Already-provisioned services keep running; the panel will be retried on the next run."
}

func (s *PanelStep) envPath(ctx *provisioning.Context) string {
	return filepath.Join(ctx.Config.StateDir, envFileName)
}

// Probe reports whether the panel container is already running,
// hydrating the credential outputs from the env file when it is.
func (s *PanelStep) Probe(ctx *provisioning.Context) (bool, error) {
	running, err := s.docker.ContainerRunning(ctx, panel.ContainerName)
	if err != nil || !running {
		return running, err
	}

	opts, err := panel.ReadEnv(s.envPath(ctx))
	if err != nil {
		if !os.IsNotExist(err) {
			ctx.Log.Warnf("panel running but env file unreadable: %v", err)
		}
		return false, nil
	}
	s.publish(ctx, opts)
	return true, nil
}

// Execute deploys the container, waits for health, and configures it
// through the management API.
func (s *PanelStep) Execute(ctx *provisioning.Context) error {
	password := ctx.Config.Panel.Password
	if password == "" {
		generated, err := keygen.ShortID(8)
		if err != nil {
			return err
		}
		password = generated
	}

	opts := panel.EnvOptions{
		Port:     ctx.Config.Panel.Port,
		Username: ctx.Config.Panel.Username,
		Password: password,
		CertFile: ctx.Outputs.CertFile,
		KeyFile:  ctx.Outputs.CertKeyFile,
	}

	envPath := s.envPath(ctx)
	ctx.Tracker.TrackPath(envPath)
	if err := panel.WriteEnv(envPath, opts); err != nil {
		return err
	}

	ctx.Registry.Register("remove management panel container",
		rollback.RunCallback(func(cctx context.Context) error {
			return s.docker.RemoveContainer(cctx, panel.ContainerName)
		}), rollback.TierNormal)

	certDir := filepath.Dir(ctx.Outputs.CertFile)
	if err := s.docker.RunContainer(ctx, docker.RunOptions{
		Name:    panel.ContainerName,
		Image:   ctx.Config.Panel.Image,
		Network: ctx.Config.Network.Name,
		Restart: "unless-stopped",
		EnvFile: envPath,
		Ports: map[string]string{
			fmt.Sprintf("%d", opts.Port): fmt.Sprintf("%d", opts.Port),
			"443":                        "443",
		},
		Volumes: map[string]string{
			certDir: certDir,
		},
	}); err != nil {
		return err
	}

	api, err := s.newAPI(fmt.Sprintf("http://127.0.0.1:%d", opts.Port))
	if err != nil {
		return err
	}

	timeout := ctx.Timeouts.HealthCheck
	if err := api.Healthy(ctx, ctx.Timeouts.PollInterval, timeout); err != nil {
		return &provisioning.HealthCheckError{Target: "management panel", Timeout: timeout, Err: err}
	}

	if err := api.Login(ctx, opts.Username, opts.Password); err != nil {
		return err
	}
	if err := api.AddInbound(ctx, s.buildInbound(ctx)); err != nil {
		return err
	}
	if ctx.Outputs.TunnelOutboundJSON != "" {
		if err := api.PushOutbound(ctx, ctx.Outputs.TunnelOutboundJSON); err != nil {
			return err
		}
	}
	if err := s.docker.RestartContainer(ctx, panel.ContainerName); err != nil {
		return err
	}

	s.publish(ctx, opts)
	return nil
}

// buildInbound assembles the proxy inbound from the typed outputs of
// the key and certificate steps.
func (s *PanelStep) buildInbound(ctx *provisioning.Context) panel.Inbound {
	return panel.Inbound{
		Remark:   "stackup",
		Port:     proxyPort,
		Protocol: "vless",
		Settings: map[string]any{
			"clients":    []map[string]any{{"id": uuid.NewString(), "flow": "xtls-rprx-vision"}},
			"decryption": "none",
		},
		StreamSettings: map[string]any{
			"network":  "tcp",
			"security": "reality",
			"realitySettings": map[string]any{
				"dest":        ctx.Config.Domain + ":443",
				"serverNames": []string{ctx.Config.Domain},
				"privateKey":  ctx.Outputs.ProxyPrivateKey,
				"shortIds":    ctx.Outputs.ShortIDs,
			},
		},
	}
}

func (s *PanelStep) publish(ctx *provisioning.Context, opts panel.EnvOptions) {
	ctx.Outputs.PanelURL = fmt.Sprintf("https://%s:%d", ctx.Config.Domain, opts.Port)
	ctx.Outputs.PanelUser = opts.Username
	ctx.Outputs.PanelPassword = opts.Password
}
