// Package dnsfilter configures, starts, and health-checks the AdGuard
// Home DNS/filtering service as a host systemd service.
package dnsfilter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"gopkg.in/yaml.v3"

	"github.com/bertffff/stackup/internal/platform/host"
	"github.com/bertffff/stackup/internal/util/netutil"
)

// ServiceName is the systemd unit AdGuard Home installs itself as.
const ServiceName = "AdGuardHome"

// installDir is where the AdGuard Home binary and config live.
const installDir = "/opt/AdGuardHome"

// Options configures the rendered AdGuard Home configuration.
type Options struct {
	WebPort      int
	BindHost     string
	Upstreams    []string
	BlockedHosts []string
}

// adguardConfig is the subset of AdGuard Home's YAML schema we render.
type adguardConfig struct {
	HTTP struct {
		Address string `yaml:"address"`
	} `yaml:"http"`
	DNS struct {
		BindHosts    []string `yaml:"bind_hosts"`
		Port         int      `yaml:"port"`
		UpstreamDNS  []string `yaml:"upstream_dns"`
		BlockedHosts []string `yaml:"blocked_hosts,omitempty"`
	} `yaml:"dns"`
	Schema int `yaml:"schema_version"`
}

// AdGuard manages the service through the host runner and systemd.
type AdGuard struct {
	run  host.Runner
	sys  *host.Systemd
	http *resty.Client
	dir  string
}

// New creates an AdGuard provider.
func New(run host.Runner, sys *host.Systemd) *AdGuard {
	return &AdGuard{
		run:  run,
		sys:  sys,
		http: resty.New().SetTimeout(5 * time.Second),
		dir:  installDir,
	}
}

// WithDir overrides the install directory (tests).
func (a *AdGuard) WithDir(dir string) *AdGuard {
	a.dir = dir
	return a
}

// ConfigPath returns the rendered configuration location.
func (a *AdGuard) ConfigPath() string {
	return filepath.Join(a.dir, "AdGuardHome.yaml")
}

// Installed reports whether the binary is present on the host.
func (a *AdGuard) Installed() bool {
	_, err := os.Stat(filepath.Join(a.dir, "AdGuardHome"))
	return err == nil
}

// Active reports whether the service is running.
func (a *AdGuard) Active(ctx context.Context) bool {
	return a.sys.IsActive(ctx, ServiceName)
}

// WriteConfig renders the service configuration.
func (a *AdGuard) WriteConfig(opts Options) error {
	var cfg adguardConfig
	cfg.Schema = 28
	cfg.HTTP.Address = fmt.Sprintf("%s:%d", opts.BindHost, opts.WebPort)
	cfg.DNS.BindHosts = []string{opts.BindHost}
	cfg.DNS.Port = 53
	cfg.DNS.UpstreamDNS = opts.Upstreams
	if len(cfg.DNS.UpstreamDNS) == 0 {
		cfg.DNS.UpstreamDNS = []string{"https://dns.cloudflare.com/dns-query", "https://dns.google/dns-query"}
	}
	cfg.DNS.BlockedHosts = opts.BlockedHosts

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal adguard config: %w", err)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create adguard directory: %w", err)
	}
	if err := os.WriteFile(a.ConfigPath(), data, 0o644); err != nil { // #nosec G306 -- service config
		return fmt.Errorf("failed to write adguard config: %w", err)
	}
	return nil
}

// Install downloads and installs the service binary and systemd unit
// using the upstream installer script.
func (a *AdGuard) Install(ctx context.Context) error {
	_, err := a.run.Run(ctx, "sh", "-c",
		"curl -fsSL https://raw.githubusercontent.com/AdguardTeam/AdGuardHome/master/scripts/install.sh | sh -s -- -v")
	if err != nil {
		return fmt.Errorf("adguard installation failed: %w", err)
	}
	return nil
}

// Start starts and enables the service.
func (a *AdGuard) Start(ctx context.Context) error {
	if err := a.sys.Start(ctx, ServiceName); err != nil {
		return err
	}
	return a.sys.Enable(ctx, ServiceName)
}

// Healthy waits for the admin UI port to accept connections, then polls
// until it answers or the timeout elapses.
func (a *AdGuard) Healthy(ctx context.Context, webPort int, interval, timeout time.Duration) error {
	if err := netutil.WaitForPort(ctx, "127.0.0.1", webPort, interval, timeout); err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d/", webPort)
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := a.http.R().SetContext(ctx).Get(url)
		if err == nil && resp.StatusCode() < 500 {
			return nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("adguard admin UI not responding: %w", lastErr)
}
