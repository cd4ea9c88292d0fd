// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
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
	"github.com/bertffff/stackup/internal/platform/tunnel"
	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
	"github.com/bertffff/stackup/internal/provisioning/steps"
	"github.com/bertffff/stackup/internal/summary"
	"github.com/bertffff/stackup/internal/ui"
	"github.com/bertffff/stackup/internal/util/netutil"
	"github.com/bertffff/stackup/internal/util/prerequisites"
)

const (
	stateFileName = "state.yaml"
	logFileName   = "install.log"
	certsDirName  = "certs"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// loadState loads the persisted milestone state.
	loadState = provisioning.LoadState

	// checkHost verifies platform-level preconditions.
	checkHost = prerequisites.CheckHost

	// checkTools looks up required host tools.
	checkTools = func() *prerequisites.CheckResults {
		return prerequisites.Check(prerequisites.DefaultTools())
	}

	// detectPublicIP resolves the host's public address.
	detectPublicIP = netutil.DetectPublicIP

	// detectSSHPort resolves the remote-access port.
	detectSSHPort = netutil.DetectSSHPort

	// newPrompter creates the confirmation prompter.
	newPrompter = func(assumeYes bool) provisioning.Prompter {
		return ui.NewPrompter(assumeYes)
	}

	// runPipeline executes the assembled pipeline.
	runPipeline = func(p *provisioning.Pipeline, ctx *provisioning.Context, ex *rollback.Executor) (*provisioning.Report, error) {
		return p.Run(ctx, ex)
	}

	// writeSummary persists the installation summary.
	writeSummary = summary.Write

	// stdout is the destination for user-facing output.
	stdout io.Writer = os.Stdout
)

// InstallOptions carries the install command's flags.
type InstallOptions struct {
	ConfigPath string
	AssumeYes  bool
	Debug      bool
}

// Install provisions the full stack on this host.
//
// The flow is strictly ordered: configuration and prerequisites are
// validated, the remote-access port and public address are detected,
// and the operator confirms, all before the first host mutation. Only
// then does the pipeline run. A declined confirmation is not an error;
// the command exits cleanly with nothing changed.
func Install(ctx context.Context, opts InstallOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := checkPrerequisites(); err != nil {
		return err
	}

	log, closeLog, err := setupLogging(cfg.StateDir, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	state, err := loadState(filepath.Join(cfg.StateDir, stateFileName))
	if err != nil {
		return err
	}

	prompter := newPrompter(opts.AssumeYes)
	pctx := provisioning.NewContext(ctx, cfg, state, prompter, log)

	// Pre-mutation detection. The remote-access port feeds the firewall
	// guard; the public address is informational only, so a failed
	// lookup does not stop the run.
	pctx.Outputs.SSHPort = detectSSHPort(cfg.SSHPort)
	if ip, ierr := detectPublicIP(ctx); ierr != nil {
		log.Warnf("could not detect public address: %v", ierr)
	} else {
		pctx.Outputs.PublicIP = ip
	}

	proceed, err := prompter.Confirm(
		fmt.Sprintf("Install the proxy stack for %s on this host?", cfg.Domain),
		fmt.Sprintf("Remote access will be preserved on port %d. State is kept in %s.",
			pctx.Outputs.SSHPort, cfg.StateDir),
	)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Fprintln(stdout, "Aborted. Nothing was changed.")
		return provisioning.ErrUserAbort
	}

	pipeline, executor := assemble(cfg, pctx, log)

	report, err := runPipeline(pipeline, pctx, executor)
	if err != nil {
		fmt.Fprintln(stdout, ui.RollbackBanner())
		if report != nil && report.Rollback != nil && !report.Rollback.Clean() {
			fmt.Fprintf(stdout, "Some changes could not be undone: %v\n", report.Rollback.Failed)
		}
		return err
	}

	return printSummary(cfg, pctx)
}

// loadConfig loads and validates the configuration. An empty path falls
// back to stackup.yaml in the current directory.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigFile
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// checkPrerequisites verifies the host before any mutation.
func checkPrerequisites() error {
	if err := checkHost(); err != nil {
		return provisioning.Preconditionf("%v", err)
	}
	results := checkTools()
	if results.HasErrors() {
		return provisioning.Preconditionf("%s", results.Error())
	}
	for _, missing := range results.Missing {
		if !missing.Required {
			logrus.Warnf("optional tool %s not found: %s", missing.Name, missing.Description)
		}
	}
	return nil
}

// setupLogging builds the run logger: console output plus a persistent
// run log in the state directory.
func setupLogging(stateDir string, debug bool) (logrus.FieldLogger, func(), error) {
	log := logrus.New()
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(stateDir, logFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run log: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, func() { _ = f.Close() }, nil
}

// assemble wires the platform providers into the ordered step list and
// the rollback executor for this run.
func assemble(cfg *config.Config, pctx *provisioning.Context, log logrus.FieldLogger) (*provisioning.Pipeline, *rollback.Executor) {
	runner := host.NewExecRunner(pctx.Timeouts.Command)
	sys := host.NewSystemd(runner)
	engine := docker.NewClient(runner)
	fw := firewall.NewUFW(runner)
	guard := firewall.NewGuard(fw, log)
	issuer := certs.NewIssuer(runner, filepath.Join(cfg.StateDir, certsDirName), log)

	list := []provisioning.Step{
		steps.NewRuntimeStep(engine),
		steps.NewNetworkStep(engine),
		steps.NewFirewallStep(fw, guard),
		steps.NewCertificateStep(issuer),
		steps.NewKeysStep(),
	}
	if cfg.Tunnel.Enabled {
		list = append(list, steps.NewTunnelStep(tunnel.NewClient(cfg.Tunnel.Endpoint)))
	}
	if cfg.DNS.Enabled {
		list = append(list, steps.NewDNSStep(dnsfilter.New(runner, sys)))
	}
	list = append(list, steps.NewPanelStep(engine, func(baseURL string) (steps.PanelAPI, error) {
		return panel.NewClient(baseURL)
	}))

	ops := steps.NewOperators(engine, fw, sys)
	executor := rollback.NewExecutor(pctx.Registry, pctx.Tracker, ops, log)
	return provisioning.NewPipeline(list...), executor
}

// printSummary renders the result to the console and persists it.
func printSummary(cfg *config.Config, pctx *provisioning.Context) error {
	res := summary.Result{
		Domain:        cfg.Domain,
		PublicIP:      pctx.Outputs.PublicIP,
		PanelURL:      pctx.Outputs.PanelURL,
		PanelUser:     pctx.Outputs.PanelUser,
		PanelPassword: pctx.Outputs.PanelPassword,
		CertFile:      pctx.Outputs.CertFile,
		SelfSigned:    pctx.Outputs.CertSelfSigned,
		TunnelActive:  pctx.Outputs.TunnelOutboundJSON != "",
	}
	if cfg.DNS.Enabled {
		res.DNSWebURL = fmt.Sprintf("http://%s:%d", cfg.Domain, cfg.DNS.WebPort)
	}

	fmt.Fprintln(stdout, res.Render())
	path, err := writeSummary(cfg.StateDir, res)
	if err != nil {
		return fmt.Errorf("installation succeeded but the summary could not be saved: %w", err)
	}
	fmt.Fprintf(stdout, "Summary saved to %s\n", path)
	return nil
}
