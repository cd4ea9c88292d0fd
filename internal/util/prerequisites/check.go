// Package prerequisites verifies the host can run the installer before
// any mutation begins: required tools on PATH, root privileges, and a
// supported service manager.
package prerequisites

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// DefaultTools returns the default set of tools to check.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "systemctl", Required: true, Description: "Required for managing host services"},
		{Name: "ufw", Required: true, Description: "Required for firewall configuration"},
		{Name: "curl", Required: true, Description: "Required for downloading install scripts"},
		{Name: "certbot", Required: false, Description: "Used for ACME certificate issuance; self-signed fallback otherwise"},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error formats the missing required tools as a single message.
func (r *CheckResults) Error() string {
	var names []string
	for _, tool := range r.Missing {
		if tool.Required {
			names = append(names, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		}
	}
	return "missing required tools: " + strings.Join(names, ", ")
}

// Check looks up each tool in PATH.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}
	for _, tool := range tools {
		path, err := exec.LookPath(tool.Name)
		result := CheckResult{Tool: tool, Found: err == nil, Path: path}
		results.Results = append(results.Results, result)
		if err != nil {
			results.Missing = append(results.Missing, tool)
		}
	}
	return results
}

// CheckHost verifies platform-level preconditions: a Linux host and
// root privileges, both needed before any firewall or service mutation.
func CheckHost() error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("unsupported platform %s: a Linux host is required", runtime.GOOS)
	}
	if os.Geteuid() != 0 {
		return fmt.Errorf("root privileges are required")
	}
	return nil
}
