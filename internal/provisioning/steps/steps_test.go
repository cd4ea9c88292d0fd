package steps

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bertffff/stackup/internal/config"
	"github.com/bertffff/stackup/internal/provisioning"
)

type yesPrompter struct{}

func (yesPrompter) Confirm(string, string) (bool, error) { return true, nil }

// testCtx builds a provisioning context over a temp state dir with a
// representative configuration.
func testCtx(t *testing.T) *provisioning.Context {
	t.Helper()

	cfg := &config.Config{
		Domain:   "proxy.example.com",
		StateDir: t.TempDir(),
		Network:  config.Network{Name: "stackup", Subnet: "172.30.0.0/24"},
		DNS:      config.DNS{Enabled: true, WebPort: 3000},
		Panel:    config.Panel{Image: "panel:latest", Port: 2053, Username: "admin"},
	}

	state, err := provisioning.LoadState(filepath.Join(cfg.StateDir, "state.yaml"))
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return provisioning.NewContext(context.Background(), cfg, state, yesPrompter{}, log)
}
