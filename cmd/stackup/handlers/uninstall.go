package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/bertffff/stackup/internal/config"
	"github.com/bertffff/stackup/internal/platform/dnsfilter"
	"github.com/bertffff/stackup/internal/platform/docker"
	"github.com/bertffff/stackup/internal/platform/firewall"
	"github.com/bertffff/stackup/internal/platform/host"
	"github.com/bertffff/stackup/internal/platform/panel"
	"github.com/bertffff/stackup/internal/provisioning"
)

// Uninstall removes the components a previous install created, driven
// by the recorded milestones. It deliberately leaves three things in
// place: the container engine, the firewall itself, and the
// remote-access rule. The stack's own allow rules are removed.
func Uninstall(ctx context.Context, configPath string, assumeYes bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := setupLogging(cfg.StateDir, false)
	if err != nil {
		return err
	}
	defer closeLog()

	state, err := loadState(filepath.Join(cfg.StateDir, stateFileName))
	if err != nil {
		return err
	}
	if len(state.Milestones) == 0 {
		fmt.Fprintln(stdout, "Nothing to uninstall: no recorded installation state.")
		return nil
	}

	prompter := newPrompter(assumeYes)
	proceed, err := prompter.Confirm(
		"Remove the installed proxy stack?",
		fmt.Sprintf("Components recorded in %s will be removed. Remote access stays open.", state.Path()),
	)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Fprintln(stdout, "Aborted. Nothing was changed.")
		return provisioning.ErrUserAbort
	}

	runner := host.NewExecRunner(config.LoadTimeouts().Command)
	sys := host.NewSystemd(runner)
	engine := docker.NewClient(runner)
	fw := firewall.NewUFW(runner)

	teardown(ctx, cfg, state, engine, sys, fw, log)

	if err := os.Remove(state.Path()); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not remove state file: %v", err)
	}
	fmt.Fprintln(stdout, "Uninstall complete.")
	return nil
}

// teardown undoes each milestone in reverse install order, best-effort:
// a failed removal is logged and the rest continues.
func teardown(ctx context.Context, cfg *config.Config, state *provisioning.State,
	engine *docker.Client, sys *host.Systemd, fw *firewall.UFW, log logrus.FieldLogger) {
	warn := func(what string, err error) {
		if err != nil {
			log.Warnf("uninstall: %s: %v", what, err)
		}
	}

	if state.Done(provisioning.MilestonePanel) {
		warn("remove panel container", engine.RemoveContainer(ctx, panel.ContainerName))
	}
	if state.Done(provisioning.MilestoneDNSService) {
		warn("stop dns service", sys.Stop(ctx, dnsfilter.ServiceName))
		warn("disable dns service", sys.Disable(ctx, dnsfilter.ServiceName))
	}
	if state.Done(provisioning.MilestoneFirewall) {
		warn("close proxy port", fw.DeletePort(ctx, 443, "tcp"))
		warn("close panel port", fw.DeletePort(ctx, cfg.Panel.Port, "tcp"))
		if cfg.DNS.Enabled {
			warn("close dns port", fw.DeletePort(ctx, 53, "tcp"))
			warn("close dns port", fw.DeletePort(ctx, 53, "udp"))
		}
		for _, rule := range cfg.Firewall.ExtraPorts {
			warn("close extra port", fw.DeletePort(ctx, rule.Port, rule.Protocol))
		}
	}
	if state.Done(provisioning.MilestoneNetwork) {
		warn("remove container network", engine.RemoveNetwork(ctx, cfg.Network.Name))
	}

	// Generated files: credentials, tunnel account, certificates, summary.
	for _, name := range []string{"proxy-keys.json", "tunnel-account.json", "panel.env", "summary.txt"} {
		warn("remove "+name, removeIfExists(filepath.Join(cfg.StateDir, name)))
	}
	warn("remove certificates", os.RemoveAll(filepath.Join(cfg.StateDir, certsDirName)))
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
