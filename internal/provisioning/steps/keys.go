package steps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bertffff/stackup/internal/provisioning"
	"github.com/bertffff/stackup/internal/provisioning/rollback"
	"github.com/bertffff/stackup/internal/util/keygen"
)

// keysFileName holds the generated proxy key material in the state dir.
const keysFileName = "proxy-keys.json"

// shortIDCount is how many short identifiers the proxy inbound gets.
const shortIDCount = 4

// proxyKeys is the persisted key material.
type proxyKeys struct {
	PrivateKey string   `json:"private_key"`
	PublicKey  string   `json:"public_key"`
	ShortIDs   []string `json:"short_ids"`
}

// KeysStep generates the proxy-protocol key pair and short identifiers.
type KeysStep struct{}

// NewKeysStep creates the key generation step.
func NewKeysStep() *KeysStep {
	return &KeysStep{}
}

// Name implements provisioning.Step.
func (s *KeysStep) Name() string { return "proxy keys" }

// Milestone implements provisioning.Step.
func (s *KeysStep) Milestone() provisioning.Milestone { return provisioning.MilestoneKeys }

func (s *KeysStep) path(ctx *provisioning.Context) string {
	return filepath.Join(ctx.Config.StateDir, keysFileName)
}

// Probe reports whether key material already exists, hydrating the
// outputs from the persisted file when it does.
func (s *KeysStep) Probe(ctx *provisioning.Context) (bool, error) {
	data, err := os.ReadFile(s.path(ctx)) // #nosec G304
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var keys proxyKeys
	if err := json.Unmarshal(data, &keys); err != nil {
		// A corrupt keys file means the step must regenerate.
		ctx.Log.Warnf("ignoring unreadable keys file: %v", err)
		return false, nil
	}

	ctx.Outputs.ProxyPrivateKey = keys.PrivateKey
	ctx.Outputs.ProxyPublicKey = keys.PublicKey
	ctx.Outputs.ShortIDs = keys.ShortIDs
	return true, nil
}

// Execute generates and persists the key material, registering removal
// of the credential file before it is written.
func (s *KeysStep) Execute(ctx *provisioning.Context) error {
	pair, err := keygen.GenerateX25519()
	if err != nil {
		return err
	}
	ids, err := keygen.ShortIDs(shortIDCount, 4)
	if err != nil {
		return err
	}

	keys := proxyKeys{PrivateKey: pair.Private, PublicKey: pair.Public, ShortIDs: ids}
	data, err := json.MarshalIndent(&keys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key material: %w", err)
	}

	path := s.path(ctx)
	ctx.Registry.Register("remove generated key material",
		rollback.RemovePath(path), rollback.TierCleanup)

	if err := os.MkdirAll(ctx.Config.StateDir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key material: %w", err)
	}

	ctx.Outputs.ProxyPrivateKey = keys.PrivateKey
	ctx.Outputs.ProxyPublicKey = keys.PublicKey
	ctx.Outputs.ShortIDs = keys.ShortIDs
	return nil
}
