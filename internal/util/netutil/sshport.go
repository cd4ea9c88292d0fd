package netutil

import (
	"os"
	"strconv"
	"strings"
)

// DefaultSSHPort is assumed when no other source yields a port.
const DefaultSSHPort = 22

// defaultSSHDConfig is the sshd configuration consulted for a Port directive.
const defaultSSHDConfig = "/etc/ssh/sshd_config"

// DetectSSHPort resolves the active remote-access port. The precedence
// is deterministic, highest first:
//
//  1. explicit configuration (configured > 0)
//  2. the Port directive in sshd_config
//  3. the server port of the current SSH session (SSH_CONNECTION)
//  4. DefaultSSHPort
//
// Detection runs once, before any mutation, and the result is cached in
// the run outputs for the whole run.
func DetectSSHPort(configured int) int {
	return detectSSHPort(configured, defaultSSHDConfig, os.Getenv)
}

func detectSSHPort(configured int, sshdConfigPath string, getenv func(string) string) int {
	if configured > 0 {
		return configured
	}

	if port := sshdConfigPort(sshdConfigPath); port > 0 {
		return port
	}

	if port := sessionPort(getenv("SSH_CONNECTION")); port > 0 {
		return port
	}

	return DefaultSSHPort
}

// sshdConfigPort parses the first uncommented Port directive.
func sshdConfigPort(path string) int {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Port") {
			continue
		}
		if port, err := strconv.Atoi(fields[1]); err == nil && port > 0 && port <= 65535 {
			return port
		}
	}
	return 0
}

// sessionPort extracts the server port from SSH_CONNECTION, which has
// the form "client-ip client-port server-ip server-port".
func sessionPort(conn string) int {
	fields := strings.Fields(conn)
	if len(fields) != 4 {
		return 0
	}
	port, err := strconv.Atoi(fields[3])
	if err != nil || port < 1 || port > 65535 {
		return 0
	}
	return port
}
