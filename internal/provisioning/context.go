package provisioning

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bertffff/stackup/internal/config"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

// Outputs holds the typed results published by steps for later steps and
// the final summary. Values are written once by the producing step and
// never re-parsed from text.
type Outputs struct {
	// Detected pre-run, before any mutation.
	PublicIP string
	SSHPort  int

	// Certificate step.
	CertFile       string
	CertKeyFile    string
	CertSelfSigned bool

	// Key generation step.
	ProxyPrivateKey string
	ProxyPublicKey  string
	ShortIDs        []string

	// Tunnel step.
	TunnelOutboundJSON string

	// Panel step.
	PanelURL      string
	PanelUser     string
	PanelPassword string
}

// Context wraps all dependencies and state needed by a provisioning
// step. It is created once per run and shared by every step; all access
// happens from the single execution goroutine.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Outputs  *Outputs
	Registry *rollback.Registry
	Tracker  *rollback.Tracker
	Prompter Prompter
	Log      logrus.FieldLogger
	Timeouts *config.Timeouts
}

// NewContext creates a provisioning context for one run.
func NewContext(ctx context.Context, cfg *config.Config, state *State, prompter Prompter, log logrus.FieldLogger) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    state,
		Outputs:  &Outputs{},
		Registry: rollback.NewRegistry(),
		Tracker:  rollback.NewTracker(),
		Prompter: prompter,
		Log:      log,
		Timeouts: config.LoadTimeouts(),
	}
}
