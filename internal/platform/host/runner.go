// Package host wraps execution of host commands and systemd service
// management. All platform providers go through the Runner interface so
// tests can substitute a fake.
package host

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a host command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a Runner backed by os/exec. Commands whose
// context carries no deadline of its own are bounded by timeout; a zero
// timeout disables the bound.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes the command, honoring context cancellation, and returns
// trimmed combined output. On failure the output tail is included in the
// error to make provisioning logs actionable.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
	}

	// #nosec G204 -- command names and arguments come from code, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, tail(output, 400))
	}
	return output, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
