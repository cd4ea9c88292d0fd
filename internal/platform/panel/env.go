package panel

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvOptions is the environment configuration rendered for the panel
// container.
type EnvOptions struct {
	Port     int
	Username string
	Password string
	CertFile string
	KeyFile  string
}

// RenderEnv renders the container env file deterministically (sorted
// keys) so repeated runs produce identical files.
func RenderEnv(opts EnvOptions) string {
	vars := map[string]string{
		"PANEL_PORT":     fmt.Sprintf("%d", opts.Port),
		"PANEL_USERNAME": opts.Username,
		"PANEL_PASSWORD": opts.Password,
		"XUI_CERT_FILE":  opts.CertFile,
		"XUI_KEY_FILE":   opts.KeyFile,
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}
	return b.String()
}

// WriteEnv writes the env file with restrictive permissions; it holds
// the panel credentials.
func WriteEnv(path string, opts EnvOptions) error {
	if err := os.WriteFile(path, []byte(RenderEnv(opts)), 0o600); err != nil {
		return fmt.Errorf("failed to write panel env file: %w", err)
	}
	return nil
}

// ReadEnv parses a previously written env file back into options,
// letting a resumed run recover the panel credentials.
func ReadEnv(path string) (EnvOptions, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return EnvOptions{}, err
	}

	var opts EnvOptions
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "PANEL_PORT":
			fmt.Sscanf(value, "%d", &opts.Port)
		case "PANEL_USERNAME":
			opts.Username = value
		case "PANEL_PASSWORD":
			opts.Password = value
		case "XUI_CERT_FILE":
			opts.CertFile = value
		case "XUI_KEY_FILE":
			opts.KeyFile = value
		}
	}
	return opts, nil
}
