package steps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bertffff/stackup/internal/platform/dnsfilter"
	"github.com/bertffff/stackup/internal/provisioning"
)

type fakeDNS struct {
	installed  bool
	active     bool
	calls      []string
	healthyErr error
	installErr error
}

func (f *fakeDNS) Installed() bool {
	return f.installed
}

func (f *fakeDNS) Active(context.Context) bool {
	return f.active
}

func (f *fakeDNS) WriteConfig(dnsfilter.Options) error {
	f.calls = append(f.calls, "write-config")
	return nil
}

func (f *fakeDNS) Install(context.Context) error {
	f.calls = append(f.calls, "install")
	f.installed = true
	return f.installErr
}

func (f *fakeDNS) Start(context.Context) error {
	f.calls = append(f.calls, "start")
	return nil
}

func (f *fakeDNS) Healthy(context.Context, int, time.Duration, time.Duration) error {
	f.calls = append(f.calls, "healthy")
	return f.healthyErr
}

func (f *fakeDNS) ConfigPath() string { return "/opt/AdGuardHome/AdGuardHome.yaml" }

func TestDNSStep_InstallsConfiguresStarts(t *testing.T) {
	ctx := testCtx(t)
	dns := &fakeDNS{}

	require.NoError(t, NewDNSStep(dns).Execute(ctx))
	assert.Equal(t, []string{"write-config", "install", "start", "healthy"}, dns.calls)

	// The config path and service are tracked before the service
	// starts; the tracker alone owns the service teardown.
	assert.Equal(t, []string{dns.ConfigPath()}, ctx.Tracker.Paths())
	assert.Equal(t, []string{dnsfilter.ServiceName}, ctx.Tracker.Services())
	assert.Zero(t, ctx.Registry.Len())
}

func TestDNSStep_SkipsInstallWhenPresent(t *testing.T) {
	ctx := testCtx(t)
	dns := &fakeDNS{installed: true}

	require.NoError(t, NewDNSStep(dns).Execute(ctx))
	assert.NotContains(t, dns.calls, "install")
}

func TestDNSStep_HealthFailureIsDegradable(t *testing.T) {
	ctx := testCtx(t)
	dns := &fakeDNS{installed: true, healthyErr: errors.New("timeout")}

	err := NewDNSStep(dns).Execute(ctx)
	require.Error(t, err)
	_, ok := provisioning.AsHealthCheck(err)
	assert.True(t, ok)

	var step provisioning.Step = NewDNSStep(dns)
	_, degradable := step.(provisioning.Degradable)
	assert.True(t, degradable)
}

func TestDNSStep_Probe(t *testing.T) {
	ctx := testCtx(t)

	done, err := NewDNSStep(&fakeDNS{installed: true, active: true}).Probe(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = NewDNSStep(&fakeDNS{installed: true, active: false}).Probe(ctx)
	require.NoError(t, err)
	assert.False(t, done, "installed but inactive must re-run")
}
