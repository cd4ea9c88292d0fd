package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/bertffff/stackup/internal/config"
	"github.com/bertffff/stackup/internal/platform/certs"
	"github.com/bertffff/stackup/internal/platform/dnsfilter"
	"github.com/bertffff/stackup/internal/platform/docker"
	"github.com/bertffff/stackup/internal/platform/firewall"
	"github.com/bertffff/stackup/internal/platform/host"
	"github.com/bertffff/stackup/internal/platform/panel"
	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/ui"
)

// Status prints each milestone's recorded flag next to a live probe of
// the component, making stale state visible without changing anything.
func Status(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	state, err := loadState(filepath.Join(cfg.StateDir, stateFileName))
	if err != nil {
		return err
	}

	runner := host.NewExecRunner(config.LoadTimeouts().Command)
	sys := host.NewSystemd(runner)
	engine := docker.NewClient(runner)
	fw := firewall.NewUFW(runner)
	issuer := certs.NewIssuer(runner, filepath.Join(cfg.StateDir, certsDirName), logrus.StandardLogger())
	dns := dnsfilter.New(runner, sys)

	probes := []struct {
		milestone provisioning.Milestone
		label     string
		live      func() bool
	}{
		{provisioning.MilestoneRuntime, "container runtime", func() bool {
			return engine.EngineReady(ctx)
		}},
		{provisioning.MilestoneNetwork, "container network", func() bool {
			ok, _ := engine.NetworkExists(ctx, cfg.Network.Name)
			return ok
		}},
		{provisioning.MilestoneFirewall, "firewall", func() bool {
			ok, _ := fw.IsEnabled(ctx)
			return ok
		}},
		{provisioning.MilestoneCertificate, "certificate", func() bool {
			return issuer.Installed(cfg.Domain)
		}},
		{provisioning.MilestoneKeys, "proxy keys", func() bool {
			return fileExists(filepath.Join(cfg.StateDir, "proxy-keys.json"))
		}},
		{provisioning.MilestoneTunnel, "tunnel account", func() bool {
			return fileExists(filepath.Join(cfg.StateDir, "tunnel-account.json"))
		}},
		{provisioning.MilestoneDNSService, "dns service", func() bool {
			return dns.Installed() && dns.Active(ctx)
		}},
		{provisioning.MilestonePanel, "management panel", func() bool {
			ok, _ := engine.ContainerRunning(ctx, panel.ContainerName)
			return ok
		}},
	}

	fmt.Fprintln(stdout, ui.Title("Installation status"))
	for _, p := range probes {
		fmt.Fprintf(stdout, "  %-20s recorded=%-5v live=%v\n",
			p.label, state.Done(p.milestone), p.live())
	}
	fmt.Fprintf(stdout, "State file: %s\n", state.Path())
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
