package steps

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bertffff/stackup/internal/platform/docker"
	"github.com/bertffff/stackup/internal/platform/panel"
	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

type fakePanelRuntime struct {
	running    bool
	runOpts    *docker.RunOptions
	runErr     error
	removed    int
	restarted  int
	runningErr error
}

func (f *fakePanelRuntime) RunContainer(_ context.Context, opts docker.RunOptions) error {
	f.runOpts = &opts
	return f.runErr
}

func (f *fakePanelRuntime) ContainerRunning(context.Context, string) (bool, error) {
	return f.running, f.runningErr
}

func (f *fakePanelRuntime) RemoveContainer(context.Context, string) error {
	f.removed++
	return nil
}

func (f *fakePanelRuntime) RestartContainer(context.Context, string) error {
	f.restarted++
	return nil
}

type fakePanelAPI struct {
	healthyErr error
	loginUser  string
	loginPass  string
	inbounds   []panel.Inbound
	outbounds  []string
}

func (f *fakePanelAPI) Login(_ context.Context, user, pass string) error {
	f.loginUser, f.loginPass = user, pass
	return nil
}

func (f *fakePanelAPI) AddInbound(_ context.Context, in panel.Inbound) error {
	f.inbounds = append(f.inbounds, in)
	return nil
}

func (f *fakePanelAPI) PushOutbound(_ context.Context, outbound string) error {
	f.outbounds = append(f.outbounds, outbound)
	return nil
}

func (f *fakePanelAPI) Healthy(context.Context, time.Duration, time.Duration) error {
	return f.healthyErr
}

func newTestPanelStep(rt *fakePanelRuntime, api *fakePanelAPI) *PanelStep {
	return NewPanelStep(rt, func(string) (PanelAPI, error) { return api, nil })
}

func TestPanelStep_DeployAndConfigure(t *testing.T) {
	ctx := testCtx(t)
	ctx.Outputs.CertFile = "/certs/proxy.example.com.crt"
	ctx.Outputs.CertKeyFile = "/certs/proxy.example.com.key"
	ctx.Outputs.ProxyPrivateKey = "priv"
	ctx.Outputs.ShortIDs = []string{"aa", "bb"}
	ctx.Outputs.TunnelOutboundJSON = `{"tag":"warp"}`

	rt := &fakePanelRuntime{}
	api := &fakePanelAPI{}
	require.NoError(t, newTestPanelStep(rt, api).Execute(ctx))

	require.NotNil(t, rt.runOpts)
	assert.Equal(t, panel.ContainerName, rt.runOpts.Name)
	assert.Equal(t, "panel:latest", rt.runOpts.Image)
	assert.Equal(t, "stackup", rt.runOpts.Network)

	// Generated password is published and logged in with.
	assert.NotEmpty(t, ctx.Outputs.PanelPassword)
	assert.Equal(t, "admin", api.loginUser)
	assert.Equal(t, ctx.Outputs.PanelPassword, api.loginPass)

	require.Len(t, api.inbounds, 1)
	assert.Equal(t, "vless", api.inbounds[0].Protocol)
	assert.Equal(t, []string{`{"tag":"warp"}`}, api.outbounds)
	assert.Equal(t, 1, rt.restarted)
	assert.Equal(t, "https://proxy.example.com:2053", ctx.Outputs.PanelURL)

	// The env file is tracked for cleanup and written restrictively.
	assert.Equal(t, []string{filepath.Join(ctx.Config.StateDir, envFileName)}, ctx.Tracker.Paths())
}

func TestPanelStep_HealthFailureIsDegradable(t *testing.T) {
	ctx := testCtx(t)
	rt := &fakePanelRuntime{}
	api := &fakePanelAPI{healthyErr: errors.New("connection refused")}

	err := newTestPanelStep(rt, api).Execute(ctx)
	require.Error(t, err)
	_, ok := provisioning.AsHealthCheck(err)
	assert.True(t, ok)

	// Container removal was registered before the deploy.
	normal := ctx.Registry.Drain(rollback.TierNormal)
	require.Len(t, normal, 1)
	assert.Equal(t, rollback.ActionRunCallback, normal[0].Action.Kind)

	var step provisioning.Step = newTestPanelStep(rt, api)
	_, degradable := step.(provisioning.Degradable)
	assert.True(t, degradable)
}

func TestPanelStep_ProbeHydratesCredentials(t *testing.T) {
	ctx := testCtx(t)
	envPath := filepath.Join(ctx.Config.StateDir, envFileName)
	require.NoError(t, panel.WriteEnv(envPath, panel.EnvOptions{
		Port:     2053,
		Username: "admin",
		Password: "s3cret",
	}))

	rt := &fakePanelRuntime{running: true}
	done, err := newTestPanelStep(rt, &fakePanelAPI{}).Probe(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "s3cret", ctx.Outputs.PanelPassword)
	assert.Equal(t, "https://proxy.example.com:2053", ctx.Outputs.PanelURL)
}

func TestPanelStep_ProbeRunningWithoutEnvReruns(t *testing.T) {
	ctx := testCtx(t)
	rt := &fakePanelRuntime{running: true}

	done, err := newTestPanelStep(rt, &fakePanelAPI{}).Probe(ctx)
	require.NoError(t, err)
	assert.False(t, done, "a running container without recoverable credentials must re-run")
}

func TestPanelStep_UsesConfiguredPassword(t *testing.T) {
	ctx := testCtx(t)
	ctx.Config.Panel.Password = "configured"

	api := &fakePanelAPI{}
	require.NoError(t, newTestPanelStep(&fakePanelRuntime{}, api).Execute(ctx))
	assert.Equal(t, "configured", api.loginPass)
}
