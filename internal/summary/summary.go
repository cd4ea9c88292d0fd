// Package summary renders and persists the result of a completed
// installation: endpoints and credentials the operator needs afterwards.
package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bertffff/stackup/internal/ui"
)

// FileName is the summary file written into the state directory.
const FileName = "summary.txt"

// Result holds everything worth showing the operator after a run.
type Result struct {
	Domain        string
	PublicIP      string
	PanelURL      string
	PanelUser     string
	PanelPassword string
	CertFile      string
	SelfSigned    bool
	DNSWebURL     string
	TunnelActive  bool
}

// lines returns the summary as key/value pairs in display order.
func (r Result) lines() [][2]string {
	out := [][2]string{
		{"Domain", r.Domain},
		{"Public IP", r.PublicIP},
		{"Panel URL", r.PanelURL},
		{"Panel user", r.PanelUser},
		{"Panel password", r.PanelPassword},
		{"Certificate", r.CertFile},
	}
	if r.SelfSigned {
		out = append(out, [2]string{"Certificate type", "self-signed (browsers will warn)"})
	}
	if r.DNSWebURL != "" {
		out = append(out, [2]string{"DNS filter UI", r.DNSWebURL})
	}
	if r.TunnelActive {
		out = append(out, [2]string{"Tunnel", "registered"})
	}
	return out
}

// Render formats the result for the console.
func (r Result) Render() string {
	var b strings.Builder
	b.WriteString(ui.Title("Installation complete"))
	b.WriteString("\n\n")
	for _, kv := range r.lines() {
		b.WriteString(ui.KV(kv[0], kv[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// Write persists the summary as plain text under dir. The file carries
// credentials so it is readable by root only.
func Write(dir string, r Result) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating summary dir: %w", err)
	}

	var b strings.Builder
	for _, kv := range r.lines() {
		fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}
